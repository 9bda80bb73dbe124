// Package platform wraps the OS-specific pieces of a search: the fastest
// available whole-file copy, disk preallocation, file metadata, the default
// source root, and opening a folder in the native file manager.
package platform

import "os"

// minReserve is the smallest copy worth preallocating for.
const minReserve = 1 << 20

// CopyMethod names the strategy a copy ended up using.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // linux copy_file_range(2)
	Sendfile                 // linux sendfile(2)
	Clonefile                // darwin clonefile(2), copy-on-write
)

var copyMethodNames = [...]string{
	ReadWrite:     "read_write",
	CopyFileRange: "copy_file_range",
	Sendfile:      "sendfile",
	Clonefile:     "clonefile",
}

func (m CopyMethod) String() string {
	if m >= 0 && int(m) < len(copyMethodNames) {
		return copyMethodNames[m]
	}
	return "unknown"
}

// CopyResult is how many bytes landed and how.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyFileParams describes copying SrcPath into DstFd, a freshly created
// and still empty temp file in the output directory.
type CopyFileParams struct {
	DstFd   *os.File
	SrcPath string
	SrcSize int64
}
