package filter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// LoadFile reads filter rules from path and appends them to the chain.
//
//	+ pattern   include
//	- pattern   exclude
//	pattern     exclude
//	# comment   ignored, as are blank lines
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for lineNum := 1; sc.Scan(); lineNum++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		add := c.AddExclude
		switch {
		case strings.HasPrefix(line, "+ "):
			add = c.AddInclude
			line = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "- "):
			line = strings.TrimSpace(line[2:])
		}

		if err := add(line); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, err)
		}
	}
	return sc.Err()
}

// ParseSize parses a human-readable size into bytes. A bare one-letter
// suffix (K, M, G, T, P) is binary, as in rsync: "1M" is 1 MiB. Explicit
// units are passed to humanize as written, so "1MB" is 10^6 and "1MiB" 2^20.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty size string")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("invalid size: %q", s)
	}

	norm := s
	if last := s[len(s)-1]; strings.ContainsRune("kKmMgGtTpP", rune(last)) {
		if len(s) == 1 {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		norm = s + "iB"
	}

	n, err := humanize.ParseBytes(norm)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size too large: %q", s)
	}
	return int64(n), nil
}
