package tui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/stats"
	"github.com/bamsammich/filescope/internal/ui"
)

type categoryTally struct {
	files int64
	bytes int64
}

// rateView is the aggregate screen: throughput, worker activity and what
// has been collected so far per category.
type rateView struct {
	busyWorkers map[int]bool
	byCategory  map[filter.Category]*categoryTally
}

func newRateView() rateView {
	return rateView{
		busyWorkers: make(map[int]bool),
		byCategory:  make(map[filter.Category]*categoryTally),
	}
}

func (r *rateView) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		r.busyWorkers[ev.WorkerID] = true
	case event.FileFailed:
		delete(r.busyWorkers, ev.WorkerID)
	case event.FileCopied:
		delete(r.busyWorkers, ev.WorkerID)
		if c, ok := filter.CategoryOf(ev.Path); ok {
			t := r.byCategory[c]
			if t == nil {
				t = &categoryTally{}
				r.byCategory[c] = t
			}
			t.files++
			t.bytes += ev.Size
		}
	}
}

func (r *rateView) view(width int, snap stats.Snapshot, reader stats.Reader, totalWorkers int) string {
	width = max(width, 20)
	var b strings.Builder

	b.WriteString("  " + st.bigNumber.Render(ui.FormatRate(reader.RollingSpeed(5))) + "\n\n")

	sparkWidth := max(width-4, 10)
	spark := ui.Sparkline(reader.SparklineData(sparkWidth), sparkWidth)
	b.WriteString("  " + st.spark.Render(spark) + "\n\n")

	fmt.Fprintf(&b, "  %s   %s   %s\n\n",
		st.speed.Render(ui.FormatCount(int64(reader.RollingFilesPerSec(5)))+" files/s"),
		st.size.Render(ui.FormatCount(snap.FilesCopied)+" / "+ui.FormatCount(snap.FilesMatched)+" copied"),
		st.size.Render(ui.FormatCount(snap.FilesDiscovered)+" scanned"),
	)

	b.WriteString("  " + st.divider.Render("workers") + "  " + r.workerGrid(totalWorkers) + "\n")

	if rows := r.categoryRows(); rows != "" {
		b.WriteString("\n  " + st.divider.Render("collected") + "\n")
		b.WriteString(rows)
	}
	return b.String()
}

func (r *rateView) workerGrid(total int) string {
	var b strings.Builder
	for i := range total {
		if r.busyWorkers[i] {
			b.WriteString(st.workerBusy.Render("▪"))
		} else {
			b.WriteString(st.workerIdle.Render("□"))
		}
	}
	return b.String()
}

func (r *rateView) categoryRows() string {
	var b strings.Builder
	for _, c := range filter.AllCategories() {
		t := r.byCategory[c]
		if t == nil {
			continue
		}
		fmt.Fprintf(&b, "  %s  %s  %s\n", tagFor(c),
			st.name.Render(fmt.Sprintf("%8s files", ui.FormatCount(t.files))),
			st.size.Render(ui.FormatBytes(t.bytes)))
	}
	return b.String()
}
