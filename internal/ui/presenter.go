package ui

import (
	"io"

	"github.com/bamsammich/filescope/internal/stats"
)

// Presenter turns a search's event stream into output.
type Presenter interface {
	// Run consumes events until the channel closes.
	Run(events <-chan Event) error
	// Summary is the line printed after Run returns; empty means print nothing.
	Summary() string
}

// Config selects and configures an inline presenter.
type Config struct {
	Writer     io.Writer // per-file records (plain mode)
	ErrWriter  io.Writer // status text; the HUD draws here
	Stats      stats.ReadTicker
	Root       string // stripped from displayed source paths
	Workers    int
	IsTTY      bool // ErrWriter is a terminal
	Quiet      bool
	ForceFeed  bool
	ForceRate  bool
	NoProgress bool
}

// NewPresenter picks quiet, plain or HUD output. The HUD needs a terminal
// and is skipped when --no-progress asks for plain records instead.
//
//nolint:ireturn // the presenter kind is chosen at runtime
func NewPresenter(cfg Config) Presenter {
	switch {
	case cfg.Quiet:
		return &quietPresenter{stats: cfg.Stats, root: cfg.Root}
	case !cfg.IsTTY, cfg.NoProgress:
		return &plainPresenter{w: cfg.Writer, errW: cfg.ErrWriter, stats: cfg.Stats, root: cfg.Root}
	default:
		return &hudPresenter{
			w:         cfg.ErrWriter,
			width:     TermWidth(cfg.ErrWriter),
			stats:     cfg.Stats,
			forceFeed: cfg.ForceFeed,
			forceRate: cfg.ForceRate,
			workers:   cfg.Workers,
			root:      cfg.Root,
		}
	}
}
