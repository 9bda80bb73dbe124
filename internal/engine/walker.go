package engine

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	krfs "github.com/kr/fs"

	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/platform"
)

// WalkerConfig controls walker behavior.
type WalkerConfig struct {
	Root string
	// SkipDir is a directory the walk must not enter, normally the output
	// directory. Compared by identity, so symlinked spellings are caught.
	SkipDir string
	// Filter prunes directories whose relative path is excluded. Files are
	// left to the dispatcher.
	Filter *filter.Chain
	// Buffer is the capacity of the entry channel. Defaults to NumCPU*64.
	Buffer int
}

// Walker streams every non-directory entry under a root, following
// symbolic links. Each Walk is an independent traversal.
type Walker struct {
	cfg WalkerConfig
}

// NewWalker creates a walker with the given config.
func NewWalker(cfg WalkerConfig) *Walker {
	if cfg.Buffer <= 0 {
		cfg.Buffer = runtime.NumCPU() * 64
	}
	return &Walker{cfg: cfg}
}

// Walk starts the traversal and returns channels for entries and errors.
// Errors are never fatal and are dropped if nobody is reading them. Both
// channels close when the walk finishes or ctx is done.
func (w *Walker) Walk(ctx context.Context) (<-chan Entry, <-chan error) {
	entries := make(chan Entry, w.cfg.Buffer)
	errs := make(chan error, w.cfg.Buffer)

	go func() {
		defer close(entries)
		defer close(errs)
		w.walk(ctx, entries, errs)
	}()

	return entries, errs
}

func (w *Walker) walk(ctx context.Context, entries chan<- Entry, errs chan<- error) {
	sendErr := func(err error) {
		slog.Debug("walk error", "error", err)
		select {
		case errs <- err:
		default:
		}
	}

	var skip os.FileInfo
	if w.cfg.SkipDir != "" {
		skip, _ = os.Stat(w.cfg.SkipDir)
	}

	visited := make(map[platform.DirID]struct{})
	walker := krfs.WalkFS(w.cfg.Root, followFS{onErr: sendErr})

	for walker.Step() {
		if ctx.Err() != nil {
			return
		}
		path := walker.Path()
		if err := walker.Err(); err != nil {
			sendErr(fmt.Errorf("walk %s: %w", path, err))
			continue
		}

		info := walker.Stat()
		if info.IsDir() {
			if !w.enterDir(path, info, skip, visited, sendErr) {
				walker.SkipDir()
			}
			continue
		}

		entry := w.entryFor(path, info)
		select {
		case entries <- entry:
		case <-ctx.Done():
			return
		}
	}
}

// enterDir reports whether the walk should descend into path.
func (w *Walker) enterDir(path string, info fs.FileInfo, skip os.FileInfo, visited map[platform.DirID]struct{}, sendErr func(error)) bool {
	if skip != nil && os.SameFile(info, skip) {
		slog.Debug("skipping output directory", "path", path)
		return false
	}

	if id, ok := platform.DirIdentity(path, info); ok {
		if _, seen := visited[id]; seen {
			// Covers symlink loops and a second link to a tree already walked.
			sendErr(fmt.Errorf("walk %s: directory already visited via another path", path))
			return false
		}
		visited[id] = struct{}{}
	}

	if w.cfg.Filter != nil && path != w.cfg.Root {
		if !w.cfg.Filter.Match(w.relPath(path), true, 0) {
			return false
		}
	}
	return true
}

func (w *Walker) entryFor(path string, info fs.FileInfo) Entry {
	return Entry{
		Path:    path,
		RelPath: w.relPath(path),
		Name:    info.Name(),
		Ext:     strings.ToLower(filter.Ext(path)),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		AccTime: platform.AccessTime(info),
	}
}

func (w *Walker) relPath(path string) string {
	rel, err := filepath.Rel(w.cfg.Root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}

// followFS is a krfs.FileSystem that resolves symbolic links everywhere.
// Children whose target cannot be stat'ed (broken links, permission
// denied, deleted mid-walk) are left out and reported through onErr.
type followFS struct {
	onErr func(error)
}

func (f followFS) ReadDir(dirname string) ([]os.FileInfo, error) {
	des, err := os.ReadDir(dirname)
	if err != nil && len(des) == 0 {
		return nil, err
	}
	if err != nil {
		f.onErr(fmt.Errorf("readdir %s: %w", dirname, err))
	}

	infos := make([]os.FileInfo, 0, len(des))
	for _, de := range des {
		path := filepath.Join(dirname, de.Name())
		info, err := os.Stat(path)
		if err != nil {
			f.onErr(fmt.Errorf("stat %s: %w", path, err))
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Lstat follows links too, so a symlinked root is walked as its target.
func (followFS) Lstat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (followFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}
