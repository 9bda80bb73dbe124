package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/filescope/internal/stats"
)

// quietShown caps the failures a quiet run lists in its summary.
const quietShown = 3

// quietPresenter prints nothing while the run goes well. If anything
// failed, its summary is the completion line plus the first few failures.
type quietPresenter struct {
	stats    stats.Reader
	root     string
	failures []string
	runErr   error
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for ev := range events {
		switch {
		case ev.Type == RunComplete:
			p.runErr = ev.Error
		case ev.Type.Failure():
			p.failures = append(p.failures, p.describe(ev))
		}
	}
	return nil
}

func (p *quietPresenter) describe(ev Event) string {
	msg := "checksum mismatch"
	if ev.Error != nil {
		msg = ev.Error.Error()
	}
	if ev.Path == "" {
		return msg
	}
	return StripRoot(p.root, ev.Path) + ": " + msg
}

func (p *quietPresenter) Summary() string {
	if p.runErr == nil && len(p.failures) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(CompletionSummary(p.stats.Snapshot()))
	if p.runErr != nil {
		fmt.Fprintf(&b, "\n  %v", p.runErr)
	}
	for _, f := range p.failures[:min(len(p.failures), quietShown)] {
		b.WriteString("\n  " + f)
	}
	if more := len(p.failures) - quietShown; more > 0 {
		fmt.Fprintf(&b, "\n  and %d more", more)
	}
	return b.String()
}
