package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionPolicy decides what happens when two matched files share a base
// name in the flat output directory.
type CollisionPolicy int

const (
	// Overwrite lets the last writer win. Each copy lands by atomic rename,
	// so the survivor is always a complete copy of exactly one source.
	Overwrite CollisionPolicy = iota
	// Rename keeps every file, numbering later arrivals "name (1).ext".
	Rename
	// Skip keeps the first claimant and skips later ones, including names
	// already present in the output directory.
	Skip
)

func (p CollisionPolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Rename:
		return "rename"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseCollisionPolicy parses "overwrite", "rename" or "skip".
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return Overwrite, nil
	case "rename":
		return Rename, nil
	case "skip":
		return Skip, nil
	default:
		return 0, fmt.Errorf("unknown collision policy %q (want overwrite, rename or skip)", s)
	}
}

// nameRegistry hands out destination names in one output directory for a
// single run.
type nameRegistry struct {
	mu      sync.Mutex
	dir     string
	policy  CollisionPolicy
	claimed map[string]struct{}
}

func newNameRegistry(dir string, policy CollisionPolicy) *nameRegistry {
	return &nameRegistry{
		dir:     dir,
		policy:  policy,
		claimed: make(map[string]struct{}),
	}
}

// claim returns the destination path for a file called name, or ok=false
// when the policy says to skip it.
func (r *nameRegistry) claim(name string) (string, bool) {
	if r.policy == Overwrite {
		return filepath.Join(r.dir, name), true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.policy == Skip {
		if r.taken(name) {
			return "", false
		}
		r.claimed[name] = struct{}{}
		return filepath.Join(r.dir, name), true
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; r.taken(candidate); n++ {
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
	r.claimed[candidate] = struct{}{}
	return filepath.Join(r.dir, candidate), true
}

func (r *nameRegistry) taken(name string) bool {
	if _, ok := r.claimed[name]; ok {
		return true
	}
	_, err := os.Lstat(filepath.Join(r.dir, name))
	return err == nil
}
