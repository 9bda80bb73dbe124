package engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// createMediaTree populates root with:
//
//	img.png
//	clip.mp4
//	note.txt
//	album/cover.JPG
//	album/deep/song.flac
//	album/deep/pack.tar.gz
func createMediaTree(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"img.png":                "png bytes",
		"clip.mp4":               "mp4 bytes",
		"note.txt":               "just text",
		"album/cover.JPG":        "cover bytes",
		"album/deep/song.flac":   "flac bytes",
		"album/deep/pack.tar.gz": "gzip bytes",
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(root, rel), content)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// listDir returns the sorted names in dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names
}

// findTmpFiles returns any leftover temp files under root.
func findTmpFiles(t *testing.T, root string) []string {
	t.Helper()
	var found []string
	for _, name := range listDir(t, root) {
		if strings.HasSuffix(name, ".filescope-tmp") {
			found = append(found, name)
		}
	}
	return found
}

// feed returns a closed channel holding entries.
func feed(entries ...Entry) <-chan Entry {
	ch := make(chan Entry, len(entries))
	for _, e := range entries {
		ch <- e
	}
	close(ch)
	return ch
}

// entryOf stats path and builds the Entry the walker would produce.
func entryOf(t *testing.T, root, path string) Entry {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	rel, err := filepath.Rel(root, path)
	require.NoError(t, err)
	w := &Walker{cfg: WalkerConfig{Root: root}}
	e := w.entryFor(path, info)
	require.Equal(t, rel, e.RelPath)
	return e
}
