package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirIdentity_SameThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	albums := filepath.Join(root, "albums")
	link := filepath.Join(root, "shortcut")
	require.NoError(t, os.Mkdir(albums, 0o755))
	require.NoError(t, os.Symlink(albums, link))

	realInfo, err := os.Stat(albums)
	require.NoError(t, err)
	linkInfo, err := os.Stat(link)
	require.NoError(t, err)

	a, ok := DirIdentity(albums, realInfo)
	require.True(t, ok)
	b, ok := DirIdentity(link, linkInfo)
	require.True(t, ok)
	assert.Equal(t, a, b)

	other := filepath.Join(root, "other")
	require.NoError(t, os.Mkdir(other, 0o755))
	otherInfo, err := os.Stat(other)
	require.NoError(t, err)
	c, ok := DirIdentity(other, otherInfo)
	require.True(t, ok)
	assert.NotEqual(t, a, c)
}

func TestSetModeAndTimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	mtime := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	atime := mtime.Add(time.Hour)
	require.NoError(t, SetTimes(f, atime, mtime))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	if runtime.GOOS != "windows" {
		require.NoError(t, SetMode(f, 0o600))
		info, err = os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestAccessTimeFallsBackToModTime(t *testing.T) {
	assert.Equal(t, fakeInfo{}.ModTime(), AccessTime(fakeInfo{}))
}

type fakeInfo struct{ os.FileInfo }

func (fakeInfo) ModTime() time.Time { return time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC) }
func (fakeInfo) Sys() any           { return nil }
