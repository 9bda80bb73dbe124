package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultRoot is the source root used when none is configured: the user's
// home directory, else the filesystem root.
func DefaultRoot() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return FilesystemRoot(runtime.GOOS)
}

// FilesystemRoot returns the top of the filesystem for goos.
func FilesystemRoot(goos string) string {
	if goos == "windows" {
		return `C:\`
	}
	return string(filepath.Separator)
}
