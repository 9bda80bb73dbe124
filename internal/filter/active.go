package filter

import (
	"path/filepath"
	"slices"
	"strings"
)

// ActiveSet is the union of extensions of the enabled categories.
// It is read-only once built and safe for concurrent use.
type ActiveSet struct {
	exts map[string]struct{}
}

// Active builds the active extension set for the given categories.
// No categories yields an empty set, which simply matches nothing.
func Active(categories ...Category) ActiveSet {
	set := ActiveSet{exts: make(map[string]struct{})}
	for _, c := range categories {
		for _, ext := range catalog[c] {
			set.exts[ext] = struct{}{}
		}
	}
	return set
}

// Contains reports whether ext (no leading dot) is in the set,
// case-insensitively.
func (s ActiveSet) Contains(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := s.exts[strings.ToLower(ext)]
	return ok
}

// Len returns the number of distinct extensions.
func (s ActiveSet) Len() int { return len(s.exts) }

// Empty reports whether the set matches nothing.
func (s ActiveSet) Empty() bool { return len(s.exts) == 0 }

// Sorted returns the extensions in lexical order.
func (s ActiveSet) Sorted() []string {
	out := make([]string, 0, len(s.exts))
	for ext := range s.exts {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Ext returns the extension of path: the text after the last '.' of the
// base name, without the dot. A name whose only dot is its first
// character (a hidden file like ".jpg") has no extension.
func Ext(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i+1:]
}

// Match reports whether path names a regular file whose extension is in set.
func Match(path string, isRegular bool, set ActiveSet) bool {
	if !isRegular {
		return false
	}
	return set.Contains(Ext(path))
}
