package engine

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const tmpSuffix = ".filescope-tmp"

// tempFiles owns the hidden files copies are staged in. Whatever is still
// staged when a pool stops, because the run was cancelled mid-copy, is
// removed by sweep.
type tempFiles struct {
	live sync.Map // path -> struct{}
}

// tmpName is the hidden staging name for dst, unique per attempt.
func tmpName(dst string) string {
	return filepath.Join(filepath.Dir(dst),
		"."+filepath.Base(dst)+"."+uuid.NewString()[:8]+tmpSuffix)
}

// create opens a new staging file for dst. release removes it again unless
// it has been renamed away, and stops tracking it.
func (t *tempFiles) create(dst string) (f *os.File, release func(), err error) {
	path := tmpName(dst)
	f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, nil, err
	}
	t.live.Store(path, struct{}{})
	return f, func() {
		t.live.Delete(path)
		_ = os.Remove(path)
	}, nil
}

// sweep removes every staging file still tracked.
func (t *tempFiles) sweep() {
	t.live.Range(func(k, _ any) bool {
		t.live.Delete(k)
		_ = os.Remove(k.(string))
		return true
	})
}
