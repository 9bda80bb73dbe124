package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/filescope/internal/filter"
)

// walkAll runs a walk to completion and returns entries sorted by RelPath.
func walkAll(t *testing.T, cfg WalkerConfig) ([]Entry, []error) {
	t.Helper()
	entries, errs := NewWalker(cfg).Walk(context.Background())

	var errList []error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for err := range errs {
			errList = append(errList, err)
		}
	}()

	var got []Entry
	for e := range entries {
		got = append(got, e)
	}
	<-done

	sort.Slice(got, func(i, j int) bool { return got[i].RelPath < got[j].RelPath })
	return got, errList
}

func relPaths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.ToSlash(e.RelPath))
	}
	return out
}

func TestWalker_NestedTree(t *testing.T) {
	root := t.TempDir()
	createMediaTree(t, root)

	got, errs := walkAll(t, WalkerConfig{Root: root})
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		"album/cover.JPG",
		"album/deep/pack.tar.gz",
		"album/deep/song.flac",
		"clip.mp4",
		"img.png",
		"note.txt",
	}, relPaths(got))

	for _, e := range got {
		assert.True(t, e.IsRegular(), e.Path)
		assert.Equal(t, filepath.Base(e.Path), e.Name)
		assert.Positive(t, e.Size)
	}
	assert.Equal(t, "jpg", got[0].Ext)
	assert.Equal(t, "gz", got[1].Ext)
}

func TestWalker_FollowsFileSymlink(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "real.png"), "twelve bytes")
	require.NoError(t, os.Symlink(filepath.Join(outside, "real.png"), filepath.Join(root, "alias.png")))

	got, errs := walkAll(t, WalkerConfig{Root: root})
	assert.Empty(t, errs)
	require.Len(t, got, 1)
	assert.Equal(t, "alias.png", got[0].Name)
	assert.True(t, got[0].IsRegular())
	assert.Equal(t, int64(12), got[0].Size)
}

func TestWalker_FollowsDirSymlink(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "photos", "a.jpg"), "a")
	require.NoError(t, os.Symlink(filepath.Join(outside, "photos"), filepath.Join(root, "linked")))

	got, errs := walkAll(t, WalkerConfig{Root: root})
	assert.Empty(t, errs)
	assert.Equal(t, []string{"linked/a.jpg"}, relPaths(got))
}

func TestWalker_SymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "a.jpg"), "a")
	writeFile(t, filepath.Join(root, "b.jpg"), "b")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "sub", "loop")))

	done := make(chan struct{})
	var got []Entry
	var errs []error
	go func() {
		defer close(done)
		got, errs = walkAll(t, WalkerConfig{Root: root})
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("walk did not terminate on a symlink cycle")
	}

	// Each file is reported exactly once.
	assert.Equal(t, []string{"b.jpg", "sub/a.jpg"}, relPaths(got))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "already visited via another path")
}

func TestWalker_SecondLinkToWalkedDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "pic.jpg"), "a")
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "b")))

	got, errs := walkAll(t, WalkerConfig{Root: root})

	// The tree is walked once, under the name reached first.
	assert.Equal(t, []string{"a/pic.jpg"}, relPaths(got))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), filepath.Join(root, "b"))
	assert.Contains(t, errs[0].Error(), "already visited via another path")
	assert.NotContains(t, errs[0].Error(), "loop")
}

func TestWalker_NonexistentRoot(t *testing.T) {
	got, errs := walkAll(t, WalkerConfig{Root: filepath.Join(t.TempDir(), "missing")})
	assert.Empty(t, got)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestWalker_BrokenSymlinkIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.png"), "ok")
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.png"), filepath.Join(root, "dangling.png")))

	got, errs := walkAll(t, WalkerConfig{Root: root})
	assert.Equal(t, []string{"ok.png"}, relPaths(got))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "dangling.png")
}

func TestWalker_PermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, cannot test permission denied")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.jpg"), "v")
	forbidden := filepath.Join(root, "forbidden")
	writeFile(t, filepath.Join(forbidden, "hidden.jpg"), "h")
	require.NoError(t, os.Chmod(forbidden, 0o000))
	t.Cleanup(func() { _ = os.Chmod(forbidden, 0o755) })

	got, errs := walkAll(t, WalkerConfig{Root: root})
	assert.Equal(t, []string{"visible.jpg"}, relPaths(got))
	assert.NotEmpty(t, errs)
}

func TestWalker_SkipsOutputDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "a")
	writeFile(t, filepath.Join(root, "out", "a.jpg"), "previous copy")

	got, errs := walkAll(t, WalkerConfig{Root: root, SkipDir: filepath.Join(root, "out")})
	assert.Empty(t, errs)
	assert.Equal(t, []string{"a.jpg"}, relPaths(got))
}

func TestWalker_FilterPrunesDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "a.jpg"), "a")
	writeFile(t, filepath.Join(root, "cache", "thumbs", "b.jpg"), "b")

	chain := filter.NewChain()
	require.NoError(t, chain.AddExclude("cache/"))

	got, _ := walkAll(t, WalkerConfig{Root: root, Filter: chain})
	assert.Equal(t, []string{"keep/a.jpg"}, relPaths(got))
}

func TestWalker_ContextCancel(t *testing.T) {
	root := t.TempDir()
	for i := range 200 {
		writeFile(t, filepath.Join(root, fmt.Sprintf("f%03d.jpg", i)), "x")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries, errs := NewWalker(WalkerConfig{Root: root, Buffer: 1}).Walk(ctx)
	count := 0
	for range entries {
		count++
	}
	for range errs {
	}
	assert.Less(t, count, 200)
}

func TestWalker_IndependentWalks(t *testing.T) {
	root := t.TempDir()
	createMediaTree(t, root)
	w := NewWalker(WalkerConfig{Root: root})

	for range 2 {
		entries, errs := w.Walk(context.Background())
		n := 0
		for range entries {
			n++
		}
		for range errs {
		}
		assert.Equal(t, 6, n)
	}
}
