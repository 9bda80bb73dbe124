package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/stats"
)

// ANSI escape sequences.
const (
	ansiDim   = "\033[2m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

const (
	rateThreshHigh   = 200.0 // files/s before the feed gives way to the rate view
	rateThreshLow    = 100.0
	sparklineWidth   = 20
	progressBarWidth = 20
	hudMinInterval   = 50 * time.Millisecond
	feedColumns      = 40 // status icon, size and rate around the path
)

// hudPresenter scrolls a feed of finished files above a small status block
// that is redrawn in place at the bottom of the terminal.
type hudPresenter struct {
	w         io.Writer
	stats     stats.ReadTicker
	forceFeed bool
	forceRate bool
	workers   int
	root      string // search root, stripped from displayed paths
	width     int    // terminal columns; 0 disables path shortening

	hudDrawn     bool
	hudLineCount int
	lastHUDDraw  time.Time
	rateMode     bool
	rateSwitched bool // the one-time switch notice was printed
	busyWorkers  map[int]bool
	collected    map[filter.Category]int64
}

func (p *hudPresenter) Run(events <-chan Event) error {
	p.busyWorkers = make(map[int]bool)
	p.collected = make(map[filter.Category]int64)
	p.rateMode = p.rateMode || p.forceRate

	// The first sample is taken early so the sparkline has data quickly.
	sample := time.NewTimer(250 * time.Millisecond)
	defer sample.Stop()
	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			if time.Since(p.lastHUDDraw) >= hudMinInterval {
				p.drawHUD()
			}
		case <-redraw.C:
			p.maybeSwitch()
			p.drawHUD()
		case <-sample.C:
			p.stats.Tick()
			sample.Reset(time.Second)
		}
	}
}

func (p *hudPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case RunStarted:
		p.above(ansiDim + ev.Message + ansiReset)
	case WalkError:
		p.above(fmt.Sprintf("!  %s%v%s", ansiDim, ev.Error, ansiReset))
	case FileStarted:
		p.busyWorkers[ev.WorkerID] = true
	case FileCopied:
		delete(p.busyWorkers, ev.WorkerID)
		if c, ok := filter.CategoryOf(ev.Path); ok {
			p.collected[c]++
		}
		tail := ""
		if speed := p.stats.RollingSpeed(5); speed > 0 {
			tail = FormatRate(speed)
		}
		p.feedLine("✓", ev, tail)
	case FileFailed:
		delete(p.busyWorkers, ev.WorkerID)
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		p.feedLine("✗", ev, msg)
	case FileSkipped:
		reason := ev.Message
		if reason == "" {
			reason = "skipped"
		}
		p.feedLine("–", ev, ansiDim+reason+ansiReset)
	case VerifyStarted:
		p.above(ansiDim + "verifying checksums..." + ansiReset)
	case VerifyFailed:
		p.above(fmt.Sprintf("✗  %s  CHECKSUM MISMATCH", p.styledPath(ev.Path)))
	case RunComplete:
		p.clearHUD()
		if ev.Error != nil {
			fmt.Fprintf(p.w, "✗  %v\n", ev.Error)
		}
		fmt.Fprintf(p.w, "%s%s%s\n", ansiBold, ev.Message, ansiReset)
	}
}

// above prints line into the scrolling area and puts the HUD back under it.
func (p *hudPresenter) above(line string) {
	p.clearHUD()
	fmt.Fprintln(p.w, line)
	p.drawHUD()
}

// feedLine prints one finished file unless the rate view has taken over.
func (p *hudPresenter) feedLine(icon string, ev Event, tail string) {
	if p.rateMode {
		return
	}
	line := fmt.Sprintf("%s  %s  %10s", icon, p.styledPath(ev.Path), FormatBytes(ev.Size))
	if tail != "" {
		line += "  " + tail
	}
	p.above(line)
}

// maybeSwitch flips between feed and rate view with some hysteresis, unless
// a mode was forced on the command line.
func (p *hudPresenter) maybeSwitch() {
	if p.forceFeed || p.forceRate {
		return
	}
	fps := p.stats.RollingFilesPerSec(2)
	switch {
	case !p.rateMode && fps > rateThreshHigh:
		p.rateMode = true
		if !p.rateSwitched {
			p.rateSwitched = true
			p.clearHUD()
			fmt.Fprintf(p.w, "↯ rate view (%s files/s · use --feed to see individual files)\n",
				FormatCount(int64(fps)))
		}
	case p.rateMode && fps < rateThreshLow:
		p.rateMode = false
	}
}

func (p *hudPresenter) drawHUD() {
	snap := p.stats.Snapshot()
	spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)

	// BytesMatched keeps growing while the walk runs.
	var pct float64
	if snap.BytesMatched > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesMatched)
	}

	var lines []string
	if p.rateMode {
		lines = append(lines, fmt.Sprintf("files/s  %s  %s/s   %s / %s copied",
			spark, FormatCount(int64(p.stats.RollingFilesPerSec(5))),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesMatched)))
	}
	lines = append(lines,
		fmt.Sprintf("       %s   %s   %s / %s   %s scanned",
			spark, FormatRate(p.stats.RollingSpeed(10)),
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesMatched),
			FormatCount(snap.FilesDiscovered)),
		fmt.Sprintf(" %3.0f%%  %s   %s / %s files   %s   eta %s",
			pct*100, ProgressBar(pct, progressBarWidth),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesMatched),
			WorkerIndicator(len(p.busyWorkers), p.workers),
			FormatETA(p.stats.ETA())),
	)
	if c := p.collectedLine(); c != "" {
		lines = append(lines, c)
	}

	p.clearHUD()
	for _, l := range lines {
		fmt.Fprintln(p.w, l)
	}
	p.hudDrawn = true
	p.hudLineCount = len(lines)
	p.lastHUDDraw = time.Now()
}

// collectedLine summarizes copies per category, e.g. "images 12 · sounds 3".
func (p *hudPresenter) collectedLine() string {
	var parts []string
	for _, c := range filter.AllCategories() {
		if n := p.collected[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", c, FormatCount(n)))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "       " + ansiDim + strings.Join(parts, " · ") + ansiReset
}

func (p *hudPresenter) clearHUD() {
	if !p.hudDrawn {
		return
	}
	fmt.Fprintf(p.w, "\033[%dA\033[J", max(p.hudLineCount, 1))
	p.hudDrawn = false
}

func (p *hudPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// styledPath dims the directory portion of a root-relative path so the
// file name stands out.
func (p *hudPresenter) styledPath(path string) string {
	path = StripRoot(p.root, path)
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "." || dir == "" {
		return base
	}
	if p.width > 0 {
		room := p.width - feedColumns - len(base) - 1
		if room < 4 {
			return base
		}
		if len(dir) > room {
			dir = "…" + dir[len(dir)-room+1:]
		}
	}
	return fmt.Sprintf("%s%s/%s%s", ansiDim, dir, ansiReset, base)
}

// StripRoot removes a root prefix from a path, returning a clean relative path.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	if strings.HasPrefix(path, root) {
		return path[len(root):]
	}
	return path
}
