//go:build darwin

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserve is the F_PREALLOCATE counterpart of the linux fallocate path.
func reserve(f *os.File, size int64) {
	if size < minReserve {
		return
	}
	_ = unix.FcntlFstore(f.Fd(), unix.F_PREALLOCATE, &unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	})
}
