package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/stats"
	"github.com/bamsammich/filescope/internal/ui"
)

// report is a copy of everything the saved report needs, taken on the UI
// goroutine so the write can happen in a tea.Cmd.
type report struct {
	root, output string
	finished     time.Time
	snap         stats.Snapshot
	runErr       error
	rows         []row
	problems     []problem
}

func (m Model) report() report {
	return report{
		root:     m.root,
		output:   m.output,
		finished: time.Now(),
		snap:     m.lastSnap,
		runErr:   m.runErr,
		rows:     append([]row(nil), m.feed.rows...),
		problems: append([]problem(nil), m.feed.problems...),
	}
}

func (r report) write(w io.Writer) {
	field := func(label string, v any) { fmt.Fprintf(w, "%-12s %v\n", label+":", v) }

	fmt.Fprintln(w, "filescope report")
	fmt.Fprintln(w, strings.Repeat("=", len("filescope report")))
	field("root", r.root)
	field("output", r.output)
	field("finished", r.finished.Format(time.DateTime))
	field("duration", ui.FormatDuration(r.snap.Elapsed))
	field("scanned", ui.FormatCount(r.snap.FilesDiscovered))
	field("matched", ui.FormatCount(r.snap.FilesMatched))
	field("copied", ui.FormatCount(r.snap.FilesCopied))
	field("size", ui.FormatBytes(r.snap.BytesCopied))
	field("errors", r.snap.FilesFailed+r.snap.FilesVerifyFailed)
	if r.runErr != nil {
		field("run error", r.runErr)
	}

	perCategory := map[filter.Category]int{}
	fmt.Fprintln(w, "\n--- files ---")
	for _, e := range r.rows {
		rel := ui.StripRoot(r.root, e.path)
		switch e.outcome {
		case failed:
			fmt.Fprintf(w, "x  %-50s  %s\n", rel, e.note)
		case skipped:
			fmt.Fprintf(w, "-  %-50s  %s\n", rel, e.note)
		default:
			fmt.Fprintf(w, "v  %-50s  %s  %s\n", rel, ui.FormatBytes(e.size), e.dst)
			if c, ok := filter.CategoryOf(e.path); ok {
				perCategory[c]++
			}
		}
	}

	if len(perCategory) > 0 {
		fmt.Fprintln(w, "\n--- copied by category ---")
		for _, c := range filter.AllCategories() {
			if n := perCategory[c]; n > 0 {
				fmt.Fprintf(w, "%-12s %d\n", c, n)
			}
		}
	}

	if len(r.problems) == 0 {
		return
	}
	fmt.Fprintln(w, "\n--- errors ---")
	for _, p := range r.problems {
		if p.path != "" {
			fmt.Fprintf(w, "%s: ", ui.StripRoot(r.root, p.path))
		}
		fmt.Fprintln(w, p.msg)
	}
}

// save writes the report to path. The path comes from the user.
func (r report) save(path string) error {
	f, err := os.Create(path) //nolint:gosec // user-chosen report path
	if err != nil {
		return err
	}
	r.write(f)
	return f.Close()
}
