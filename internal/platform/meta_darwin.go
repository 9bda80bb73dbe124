//go:build darwin

package platform

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func statAtime(st *syscall.Stat_t) time.Time {
	return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
}

// dev_t is int32 on darwin.
func statDev(st *syscall.Stat_t) uint64 { return uint64(st.Dev) } //nolint:gosec // G115

// SetTimes sets atime and mtime by name; darwin has no AT_EMPTY_PATH.
func SetTimes(f *os.File, atime, mtime time.Time) error {
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, f.Name(), timespecs(atime, mtime), 0); err != nil {
		return fmt.Errorf("utimensat %s: %w", f.Name(), err)
	}
	return nil
}
