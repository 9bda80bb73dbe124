//go:build darwin

package platform

import (
	"errors"

	"golang.org/x/sys/unix"
)

// CopyFile clones the source when the filesystem allows it and streams it
// otherwise. clonefile(2) will not overwrite, so cloning onto an existing
// temp file reports EEXIST and streams instead.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	switch err := unix.Clonefile(params.SrcPath, params.DstFd.Name(), 0); {
	case err == nil:
		return CopyResult{BytesWritten: params.SrcSize, Method: Clonefile}, nil
	case !errors.Is(err, unix.ENOTSUP) && !errors.Is(err, unix.EXDEV) && !errors.Is(err, unix.EEXIST):
		return CopyResult{}, err
	}

	reserve(params.DstFd, params.SrcSize)
	return copyReadWrite(params)
}
