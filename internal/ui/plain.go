package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/stats"
)

const plainProgressEvery = 5 * time.Second

// plainPresenter is the non-terminal output. Stdout gets one tab-separated
// record per file so it can be piped into cut or awk:
//
//	status  category  source  destination  bytes  detail
//
// with status one of copied, failed, skipped or mismatch and the source
// relative to the root. Lifecycle text and periodic progress go to stderr.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats stats.ReadTicker
	root  string
}

func (p *plainPresenter) Run(events <-chan Event) error {
	progress := time.NewTicker(plainProgressEvery)
	defer progress.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-progress.C:
			p.stats.Tick()
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileCopied:
		p.record("copied", ev, "")
	case FileFailed:
		detail := "error"
		if ev.Error != nil {
			detail = ev.Error.Error()
		}
		p.record("failed", ev, detail)
	case FileSkipped:
		p.record("skipped", ev, ev.Message)
	case VerifyFailed:
		p.record("mismatch", ev, "checksum differs")
	case RunStarted:
		fmt.Fprintln(p.errW, ev.Message)
	case WalkError:
		fmt.Fprintf(p.errW, "walk: %v\n", ev.Error)
	case VerifyStarted:
		fmt.Fprintln(p.errW, "verifying copies...")
	case RunComplete:
		if ev.Error != nil {
			fmt.Fprintf(p.errW, "error: %v\n", ev.Error)
		}
		fmt.Fprintln(p.errW, ev.Message)
	}
}

func (p *plainPresenter) record(status string, ev Event, detail string) {
	category := "-"
	if c, ok := filter.CategoryOf(ev.Path); ok {
		category = string(c)
	}
	dst := ev.Dst
	if dst == "" {
		dst = "-"
	}
	fields := []string{
		status,
		category,
		StripRoot(p.root, ev.Path),
		dst,
		strconv.FormatInt(ev.Size, 10),
		tabless(detail),
	}
	fmt.Fprintln(p.w, strings.Join(fields, "\t"))
}

// tabless keeps a free-text field from splitting the record.
func tabless(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.FilesMatched == 0 {
		fmt.Fprintf(p.errW, "progress: %s files scanned, none matched yet\n",
			FormatCount(snap.FilesDiscovered))
		return
	}
	var pct float64
	if snap.BytesMatched > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesMatched) * 100
	}
	fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s %s/%s files (%s scanned) %s eta %s\n",
		pct,
		FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesMatched),
		FormatCount(snap.FilesCopied), FormatCount(snap.FilesMatched),
		FormatCount(snap.FilesDiscovered),
		FormatRate(p.stats.RollingSpeed(10)),
		FormatETA(p.stats.ETA()),
	)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
