package engine

import (
	"io/fs"
	"time"
)

// Entry is one non-directory filesystem object found by the Walker. Symbolic
// links are already resolved: Size, Mode and the times describe the target.
type Entry struct {
	Path    string // absolute or root-joined source path
	RelPath string // path relative to the walk root, for filter rules
	Name    string // base name
	Ext     string // lower-cased extension without the dot, "" if none
	ModTime time.Time
	AccTime time.Time
	Size    int64
	Mode    fs.FileMode
}

// IsRegular reports whether the entry is a regular file.
func (e Entry) IsRegular() bool {
	return e.Mode.IsRegular()
}
