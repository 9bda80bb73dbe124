//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// kernelStep moves up to n bytes from src to dst starting at *off.
type kernelStep func(src, dst int, off *int64, n int) (int, error)

type kernelCopy struct {
	method CopyMethod
	step   kernelStep
}

// kernelCopies are tried in order before falling back to read/write.
var kernelCopies = []kernelCopy{
	{CopyFileRange, func(src, dst int, off *int64, n int) (int, error) {
		woff := *off
		return unix.CopyFileRange(src, off, dst, &woff, n, 0)
	}},
	{Sendfile, func(src, dst int, off *int64, n int) (int, error) {
		return unix.Sendfile(dst, src, off, n)
	}},
}

// CopyFile copies through the kernel when it can. A strategy that refuses
// before moving any byte hands over to the next one.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	reserve(params.DstFd, params.SrcSize)

	src, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer src.Close()

	for _, kc := range kernelCopies {
		res, err := kc.run(src, params.DstFd, params.SrcSize)
		if res.BytesWritten > 0 || !refused(err) {
			return res, err
		}
	}
	return CopyStream(params.DstFd, src)
}

func (kc kernelCopy) run(src, dst *os.File, size int64) (CopyResult, error) {
	res := CopyResult{Method: kc.method}
	var off int64
	for off < size {
		n, err := kc.step(int(src.Fd()), int(dst.Fd()), &off, int(size-off))
		res.BytesWritten = off
		if err != nil {
			return res, err
		}
		if n == 0 {
			break // source shrank under us
		}
	}
	return res, nil
}

// refused reports whether err means the kernel cannot do this copy at all,
// as opposed to the copy failing.
func refused(err error) bool {
	for _, errno := range []unix.Errno{unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP, unix.EOPNOTSUPP} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
