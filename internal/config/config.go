// Package config loads the optional filescope configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
)

// EnvPath names the variable that points filescope at a specific file.
const EnvPath = "FILESCOPE_CONFIG"

// Config is the optional configuration file. Every field may be absent.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. A nil field means unset;
// flags given on the command line always win.
type DefaultsConfig struct {
	Root       *string  `toml:"root"`
	Output     *string  `toml:"output"`
	Categories []string `toml:"categories"`
	Workers    *int     `toml:"workers"`
	Collision  *string  `toml:"collision"`
	Verify     *bool    `toml:"verify"`
	TUI        *bool    `toml:"tui"`
	Open       *bool    `toml:"open"`
	Preserve   *bool    `toml:"preserve"`
	BWLimit    *string  `toml:"bwlimit"`
	Exclude    []string `toml:"exclude"`
}

// ThemeConfig overrides colors in the full-screen view. Keys name what a
// color marks, not the hue. Values are "#rgb", "#rrggbb" or an ANSI index.
type ThemeConfig struct {
	Copied  *string `toml:"copied"`
	Failed  *string `toml:"failed"`
	Skipped *string `toml:"skipped"`
	Accent  *string `toml:"accent"`
	Active  *string `toml:"active"`
	Banner  *string `toml:"banner"`
	Text    *string `toml:"text"`
	Muted   *string `toml:"muted"`
	Dim     *string `toml:"dim"`
	// Categories colors the tag in front of each copied file, e.g.
	// videos = "#f5c2e7". Keys accept the same aliases as --categories.
	Categories map[string]string `toml:"categories"`
}

// Path returns where the config file is looked for: $FILESCOPE_CONFIG, else
// filescope/config.toml under the XDG config directory. It is "" when no
// home directory can be found.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "filescope", "config.toml")
}

// Load reads the file at Path. A missing file is an empty Config.
func Load() (Config, error) {
	if path := Path(); path != "" {
		return LoadFile(path)
	}
	return Config{}, nil
}

// LoadFile reads the config file at path. A missing file is an empty
// Config. Unknown keys and malformed colors are errors so typos surface.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Config{}, nil
	case err != nil:
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, extra[0].String())
	}
	if err := cfg.Theme.check(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func validColor(s string) bool {
	if hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

func (t ThemeConfig) check() error {
	roles := []struct {
		key string
		val *string
	}{
		{"copied", t.Copied}, {"failed", t.Failed}, {"skipped", t.Skipped},
		{"accent", t.Accent}, {"active", t.Active}, {"banner", t.Banner},
		{"text", t.Text}, {"muted", t.Muted}, {"dim", t.Dim},
	}
	for _, r := range roles {
		if r.val != nil && !validColor(*r.val) {
			return fmt.Errorf("theme.%s: invalid color %q", r.key, *r.val)
		}
	}
	for k, v := range t.Categories {
		if !validColor(v) {
			return fmt.Errorf("theme.categories.%s: invalid color %q", k, v)
		}
	}
	return nil
}
