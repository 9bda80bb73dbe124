package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRootUsesHome(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, "/home/someone", DefaultRoot())
}

func TestFilesystemRoot(t *testing.T) {
	assert.Equal(t, `C:\`, FilesystemRoot("windows"))
	assert.Equal(t, "/", FilesystemRoot("linux"))
}
