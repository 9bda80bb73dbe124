//go:build !linux && !darwin

package platform

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DirIdentity resolves path to its symlink-free form.
func DirIdentity(path string, _ fs.FileInfo) (DirID, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return DirID{}, false
	}
	return DirID{Path: resolved}, true
}

// AccessTime falls back to the modification time.
func AccessTime(info fs.FileInfo) time.Time { return info.ModTime() }

// SetMode applies the permission bits of mode to an open file.
func SetMode(f *os.File, mode fs.FileMode) error { return f.Chmod(mode.Perm()) }

// SetTimes sets atime and mtime by name.
func SetTimes(f *os.File, atime, mtime time.Time) error {
	return os.Chtimes(f.Name(), atime, mtime)
}
