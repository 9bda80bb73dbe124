package filter

import (
	"fmt"
	"slices"
	"strings"
)

// Category is a user-facing grouping of file extensions.
type Category string

const (
	Images   Category = "images"
	Videos   Category = "videos"
	Archives Category = "archives"
	Sounds   Category = "sounds"
)

// catalog maps each category to its fixed, lower-case extension list
// (no leading dot). It is never mutated after init.
var catalog = map[Category][]string{
	Images:   {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp", "svg"},
	Videos:   {"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "mpeg", "3gp"},
	Archives: {"zip", "rar", "7z", "tar", "gz", "bz2", "xz"},
	Sounds:   {"mp3", "wav", "ogg", "flac", "aac", "m4a", "alac", "wma", "aiff", "opus"},
}

var categoryAliases = map[string]Category{
	"images":           Images,
	"image":            Images,
	"videos":           Videos,
	"video":            Videos,
	"archives":         Archives,
	"archive":          Archives,
	"compressed":       Archives,
	"compressed-files": Archives,
	"sounds":           Sounds,
	"sound":            Sounds,
	"audio":            Sounds,
}

// AllCategories returns every known category in display order.
func AllCategories() []Category {
	return []Category{Images, Videos, Archives, Sounds}
}

// Extensions returns a copy of the extension list for c, or nil if c is
// not a known category.
func Extensions(c Category) []string {
	exts, ok := catalog[c]
	if !ok {
		return nil
	}
	return slices.Clone(exts)
}

// ParseCategory resolves a category name or alias, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown category %q (use images, videos, archives or sounds)", s)
	}
	return c, nil
}

// ParseCategories parses a comma-separated category list. Empty elements
// are ignored and duplicates collapse.
func ParseCategories(s string) ([]Category, error) {
	var out []Category
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCategory(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (c Category) String() string { return string(c) }

// CategoryOf reports which category lists path's extension. The lists are
// disjoint, so the answer is unique.
func CategoryOf(path string) (Category, bool) {
	ext := strings.ToLower(Ext(path))
	if ext == "" {
		return "", false
	}
	for _, c := range AllCategories() {
		if slices.Contains(catalog[c], ext) {
			return c, true
		}
	}
	return "", false
}
