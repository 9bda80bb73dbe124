//go:build linux

package platform

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func statAtime(st *syscall.Stat_t) time.Time { return time.Unix(st.Atim.Sec, st.Atim.Nsec) }

func statDev(st *syscall.Stat_t) uint64 { return st.Dev }

// SetTimes sets atime and mtime through the descriptor, falling back to the
// file name on kernels without AT_EMPTY_PATH.
func SetTimes(f *os.File, atime, mtime time.Time) error {
	ts := timespecs(atime, mtime)
	err := unix.UtimesNanoAt(int(f.Fd()), "", ts, unix.AT_EMPTY_PATH)
	if err == nil {
		return nil
	}
	if byName := unix.UtimesNanoAt(unix.AT_FDCWD, f.Name(), ts, 0); byName != nil {
		return fmt.Errorf("utimensat %s: %w", f.Name(), err)
	}
	return nil
}
