package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bamsammich/filescope/internal/config"
	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/stats"
	"github.com/bamsammich/filescope/internal/ui"
)

// Config configures the TUI presenter.
type Config struct {
	Stats   stats.ReadTicker
	Workers int
	Root    string
	Output  string // output directory, shown in the header and the report
	Theme   config.ThemeConfig
	// Reveal runs when the completion message is dismissed. Nil disables it.
	Reveal func() error
	// Screen is where the view is drawn. Defaults to stderr, which keeps
	// stdout free for whatever the caller pipes it into.
	Screen io.Writer
}

// Presenter runs the full-screen view for one search and implements
// ui.Presenter.
type Presenter struct {
	cfg   Config
	final Model
}

// NewPresenter applies the configured theme and returns a presenter ready
// to Run.
func NewPresenter(cfg Config) *Presenter {
	ApplyTheme(cfg.Theme)
	if cfg.Screen == nil {
		cfg.Screen = os.Stderr
	}
	return &Presenter{cfg: cfg}
}

// Run blocks until the user closes the view. That may be before the event
// channel closes, so callers keep draining events after Run returns.
func (p *Presenter) Run(events <-chan event.Event) error {
	m := NewModel(events, p.cfg.Stats, p.cfg.Workers, p.cfg.Root, p.cfg.Output, p.cfg.Reveal)
	p.final = m
	final, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
		tea.WithOutput(p.cfg.Screen),
	).Run()
	if err != nil {
		return fmt.Errorf("full-screen view: %w", err)
	}
	if fm, ok := final.(Model); ok {
		p.final = fm
	}
	return nil
}

// Summary is the completion line printed once the alt screen is gone,
// followed by the reveal failure when opening the folder did not work.
func (p *Presenter) Summary() string {
	s := ui.CompletionSummary(p.cfg.Stats.Snapshot())
	if err := p.final.RevealErr(); err != nil {
		s += fmt.Sprintf("\ncould not open %s: %v", p.cfg.Output, err)
	}
	return s
}

// Dismissed reports whether the user closed the completion message, as
// opposed to quitting early.
func (p *Presenter) Dismissed() bool { return p.final.Dismissed() }

// RevealErr returns the error from the reveal triggered on dismissal.
func (p *Presenter) RevealErr() error { return p.final.RevealErr() }
