//go:build linux || darwin

package platform

import (
	"io/fs"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DirIdentity returns the device and inode behind info.
func DirIdentity(_ string, info fs.FileInfo) (DirID, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return DirID{}, false
	}
	return DirID{Dev: statDev(st), Ino: st.Ino}, true
}

// AccessTime returns the last access time, or the modification time when
// the platform stat is unavailable.
func AccessTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return statAtime(st)
	}
	return info.ModTime()
}

// SetMode applies the permission bits of mode to an open file.
func SetMode(f *os.File, mode fs.FileMode) error {
	return unix.Fchmod(int(f.Fd()), uint32(mode.Perm())) //nolint:gosec // G115: fd is small
}

func timespecs(atime, mtime time.Time) []unix.Timespec {
	return []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
}
