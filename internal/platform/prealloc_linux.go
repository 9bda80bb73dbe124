//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserve asks the filesystem for size bytes up front so large media files
// land in as few extents as possible. Unsupported filesystems just say no.
func reserve(f *os.File, size int64) {
	if size < minReserve {
		return
	}
	_ = unix.Fallocate(int(f.Fd()), 0, 0, size) //nolint:gosec // G115: fd is small
}
