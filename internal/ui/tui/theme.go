package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/filescope/internal/config"
	"github.com/bamsammich/filescope/internal/filter"
)

// palette assigns a color to each role on screen. Defaults are Catppuccin
// Mocha; [theme] in the config file overrides any of them.
type palette struct {
	copied, failed, skipped lipgloss.Color
	accent, active, banner  lipgloss.Color
	text, muted, dim        lipgloss.Color
	categories              map[filter.Category]lipgloss.Color
}

func defaultPalette() palette {
	return palette{
		copied:  "#a6e3a1",
		failed:  "#f38ba8",
		skipped: "#5a6278",
		accent:  "#cba6f7",
		active:  "#89b4fa",
		banner:  "#f9e2af",
		text:    "#cdd6f4",
		muted:   "#5a6278",
		dim:     "#3a4055",
		categories: map[filter.Category]lipgloss.Color{
			filter.Images:   "#fab387",
			filter.Videos:   "#f5c2e7",
			filter.Archives: "#94e2d5",
			filter.Sounds:   "#89dceb",
		},
	}
}

type styles struct {
	header, headerLabel, divider   lipgloss.Style
	copied, failed, skipped        lipgloss.Style
	name, dir, size, speed, active lipgloss.Style
	errText, errPath               lipgloss.Style
	key, keyLabel                  lipgloss.Style
	bigNumber, spark               lipgloss.Style
	workerBusy, workerIdle         lipgloss.Style
	barFilled, barEmpty            lipgloss.Style
	status, prompt, input          lipgloss.Style
	banner, bannerDone             lipgloss.Style
	category                       map[filter.Category]lipgloss.Style
}

var st = newStyles(defaultPalette())

func newStyles(p palette) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	s := styles{
		header:      fg(p.text).Bold(true),
		headerLabel: fg(p.accent).Bold(true),
		divider:     fg(p.dim),
		copied:      fg(p.copied),
		failed:      fg(p.failed),
		skipped:     fg(p.skipped),
		name:        fg(p.text),
		dir:         fg(p.muted),
		size:        fg(p.muted),
		speed:       fg(p.active),
		active:      fg(p.active),
		errText:     fg(p.failed),
		errPath:     fg(p.failed).Bold(true),
		key:         fg(p.accent).Bold(true),
		keyLabel:    fg(p.muted),
		bigNumber:   fg(p.copied).Bold(true),
		spark:       fg(p.active),
		workerBusy:  fg(p.active),
		workerIdle:  fg(p.dim),
		barFilled:   fg(p.copied),
		barEmpty:    fg(p.dim),
		status:      fg(p.banner).Italic(true),
		prompt:      fg(p.muted),
		input:       fg(p.text),
		banner:      fg(p.banner).Padding(0, 2),
		bannerDone:  fg(p.copied).Bold(true).Padding(0, 2),
		category:    make(map[filter.Category]lipgloss.Style, len(p.categories)),
	}
	for c, col := range p.categories {
		s.category[c] = fg(col)
	}
	return s
}

// categoryTag is a short colored label for the category of path, or
// padding when the extension is not in the catalog.
func categoryTag(path string) string {
	c, ok := filter.CategoryOf(path)
	if !ok {
		return "   "
	}
	return tagFor(c)
}

func tagFor(c filter.Category) string {
	return st.category[c].Render(string(c)[:3])
}

// ApplyTheme overrides the default palette with any colors set in tc.
func ApplyTheme(tc config.ThemeConfig) {
	p := defaultPalette()
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&p.copied, tc.Copied)
	set(&p.failed, tc.Failed)
	set(&p.skipped, tc.Skipped)
	set(&p.accent, tc.Accent)
	set(&p.active, tc.Active)
	set(&p.banner, tc.Banner)
	set(&p.text, tc.Text)
	set(&p.muted, tc.Muted)
	set(&p.dim, tc.Dim)
	for name, col := range tc.Categories {
		if c, err := filter.ParseCategory(name); err == nil {
			p.categories[c] = lipgloss.Color(col)
		}
	}
	st = newStyles(p)
}
