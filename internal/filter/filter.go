// Package filter decides which discovered files take part in a search:
// the extension catalog and active set, plus optional glob and size rules.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rule is one rsync-style include or exclude pattern. Patterns are matched
// case-insensitively against the slash-separated path relative to the root,
// because media trees routinely mix IMG_0001.JPG and img_0002.jpg.
type rule struct {
	source  string // as written by the user, for String
	glob    string // lower-cased doublestar pattern
	include bool
	dirOnly bool // trailing slash: only directories match
}

// newRule compiles pattern. A leading slash, or any slash inside, anchors
// the pattern at the root; otherwise it may match at any depth.
func newRule(pattern string, include bool) (rule, error) {
	r := rule{source: pattern, include: include}

	body, dirOnly := strings.CutSuffix(pattern, "/")
	r.dirOnly = dirOnly
	body, rooted := strings.CutPrefix(body, "/")
	if body == "" {
		return rule{}, fmt.Errorf("empty pattern %q", pattern)
	}

	r.glob = strings.ToLower(body)
	if !rooted && !strings.Contains(body, "/") {
		r.glob = "**/" + r.glob
	}
	if !doublestar.ValidatePattern(r.glob) {
		return rule{}, fmt.Errorf("invalid pattern %q", pattern)
	}
	return r, nil
}

func (r rule) matches(relPath string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	ok, err := doublestar.Match(r.glob, relPath)
	return err == nil && ok
}

// Chain is an ordered rule list plus a size window. It only narrows the
// catalog match: a file the active set rejects is never let back in.
// The first matching rule decides; a path no rule matches is kept.
type Chain struct {
	rules   []rule
	minSize int64
	maxSize int64
}

// NewChain returns a chain that keeps everything.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude appends a rule that drops paths matching pattern.
func (c *Chain) AddExclude(pattern string) error { return c.add(pattern, false) }

// AddInclude appends a rule that keeps paths matching pattern, shielding
// them from later excludes.
func (c *Chain) AddInclude(pattern string) error { return c.add(pattern, true) }

func (c *Chain) add(pattern string, include bool) error {
	r, err := newRule(pattern, include)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, r)
	return nil
}

// SetMinSize drops files smaller than n bytes; 0 disables the bound.
func (c *Chain) SetMinSize(n int64) { c.minSize = n }

// SetMaxSize drops files larger than n bytes; 0 disables the bound.
func (c *Chain) SetMaxSize(n int64) { c.maxSize = n }

// Empty reports whether the chain would keep every path.
func (c *Chain) Empty() bool {
	return c == nil || len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0
}

// Match reports whether relPath survives the chain. Size bounds apply to
// files only, so directories are judged by the rules alone. A nil chain
// keeps everything.
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if c == nil {
		return true
	}
	if !isDir && !c.sizeOK(size) {
		return false
	}

	p := strings.ToLower(filepath.ToSlash(relPath))
	for _, r := range c.rules {
		if r.matches(p, isDir) {
			return r.include
		}
	}
	return true
}

func (c *Chain) sizeOK(size int64) bool {
	if c.minSize > 0 && size < c.minSize {
		return false
	}
	return c.maxSize <= 0 || size <= c.maxSize
}

// String lists the rules in evaluation order, e.g. "+ **/DCIM/**, - *.tmp",
// followed by the size window when one is set.
func (c *Chain) String() string {
	if c.Empty() {
		return "(none)"
	}
	parts := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		sign := "-"
		if r.include {
			sign = "+"
		}
		parts = append(parts, sign+" "+r.source)
	}
	if c.minSize > 0 || c.maxSize > 0 {
		parts = append(parts, fmt.Sprintf("size %d..%d", c.minSize, c.maxSize))
	}
	return strings.Join(parts, ", ")
}
