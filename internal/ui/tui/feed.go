package tui

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/ui"
)

// outcome is how a matched file left the dispatcher.
type outcome uint8

const (
	copied outcome = iota
	failed
	skipped
)

func (o outcome) icon() string {
	switch o {
	case failed:
		return st.failed.Render("✗")
	case skipped:
		return st.skipped.Render("–")
	default:
		return st.copied.Render("✓")
	}
}

// slot is the file a worker is currently copying.
type slot struct {
	path  string
	size  int64
	since time.Time
}

// row is one finished file. note holds the error text or skip reason.
type row struct {
	path    string
	dst     string
	size    int64
	outcome outcome
	note    string
}

// renamed reports whether the collision policy gave the copy a new name.
func (r row) renamed() bool {
	return r.dst != "" && filepath.Base(r.dst) != filepath.Base(r.path)
}

// problem is a walk, copy or verify failure. Walk failures carry no path.
type problem struct {
	path string
	msg  string
	at   time.Time
}

const (
	problemLines   = 5
	checksumReport = "CHECKSUM MISMATCH"
)

type feedView struct {
	root     string
	active   map[int]slot // by worker
	rows     []row
	problems []problem

	offset int
	follow bool
}

func newFeedView(root string) feedView {
	return feedView{
		root:   root,
		active: make(map[int]slot),
		follow: true,
	}
}

func eventText(ev event.Event, fallback string) string {
	switch {
	case ev.Error != nil:
		return ev.Error.Error()
	case ev.Message != "":
		return ev.Message
	}
	return fallback
}

func (f *feedView) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		f.active[ev.WorkerID] = slot{path: ev.Path, size: ev.Size, since: ev.Timestamp}
	case event.FileCopied:
		delete(f.active, ev.WorkerID)
		f.rows = append(f.rows, row{path: ev.Path, dst: ev.Dst, size: ev.Size, outcome: copied})
	case event.FileFailed:
		delete(f.active, ev.WorkerID)
		msg := eventText(ev, "error")
		f.rows = append(f.rows, row{path: ev.Path, dst: ev.Dst, size: ev.Size, outcome: failed, note: msg})
		f.problems = append(f.problems, problem{path: ev.Path, msg: msg, at: ev.Timestamp})
	case event.FileSkipped:
		f.rows = append(f.rows, row{path: ev.Path, dst: ev.Dst, size: ev.Size, outcome: skipped, note: eventText(ev, "skipped")})
	case event.WalkError:
		if ev.Error != nil {
			f.problems = append(f.problems, problem{msg: ev.Error.Error(), at: ev.Timestamp})
		}
	case event.VerifyFailed:
		f.problems = append(f.problems, problem{path: ev.Path, msg: checksumReport, at: ev.Timestamp})
	}
}

func (f *feedView) scrollDown() {
	f.follow = false
	f.offset++
}

func (f *feedView) scrollUp() {
	f.follow = false
	f.offset = max(f.offset-1, 0)
}

func (f *feedView) scrollToTop() {
	f.follow = false
	f.offset = 0
}

func (f *feedView) scrollToBottom() { f.follow = true }

// feedLayout splits the content height between the three sections. The
// in-flight list gets at most a third, problems at most problemLines and
// finished rows take what is left.
type feedLayout struct {
	active, rows, problems int
}

func (f *feedView) layout(height int) feedLayout {
	l := feedLayout{
		active:   min(len(f.active), max(height/3, 1)),
		problems: min(len(f.problems), problemLines),
	}
	used := l.active + l.problems
	for _, n := range []int{l.active, l.problems, len(f.rows)} {
		if n > 0 {
			used++ // section divider
		}
	}
	l.rows = max(height-used, 1)
	return l
}

func (f *feedView) view(width, height int, speed float64) string {
	l := f.layout(height)

	last := max(len(f.rows)-l.rows, 0)
	if f.follow {
		f.offset = last
	}
	f.offset = min(max(f.offset, 0), last)

	var b strings.Builder
	section := func(title, body string) {
		if body == "" {
			return
		}
		b.WriteString(st.divider.Render("─ " + title))
		b.WriteByte('\n')
		b.WriteString(body)
	}
	section("in-flight", f.renderActive(l.active))
	// The per-file rate column only fits on wide terminals.
	if width < 60 {
		speed = 0
	}
	section(fmt.Sprintf("files (%d)", len(f.rows)), f.renderRows(l.rows, speed))
	section(fmt.Sprintf("errors (%d)", len(f.problems)), f.renderProblems(l.problems))
	return b.String()
}

// renderActive lists busy workers in worker order so the section does not
// reshuffle between frames.
func (f *feedView) renderActive(limit int) string {
	ids := make([]int, 0, len(f.active))
	for id := range f.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	for _, id := range ids[:min(limit, len(ids))] {
		s := f.active[id]
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			st.active.Render("⟩"),
			f.styledPath(s.path),
			st.size.Render(ui.FormatBytes(s.size)))
	}
	return b.String()
}

func (f *feedView) renderRows(limit int, speed float64) string {
	if len(f.rows) == 0 {
		return ""
	}

	var b strings.Builder
	for _, r := range f.rows[f.offset:min(f.offset+limit, len(f.rows))] {
		fmt.Fprintf(&b, "  %s %s  %s  %s",
			r.outcome.icon(),
			categoryTag(r.path),
			f.styledPath(r.path),
			st.size.Render(fmt.Sprintf("%10s", ui.FormatBytes(r.size))))

		switch r.outcome {
		case failed:
			b.WriteString("  " + st.errText.Render(r.note))
		case skipped:
			b.WriteString("  " + st.skipped.Render(r.note))
		default:
			if r.renamed() {
				b.WriteString("  " + st.dir.Render("→ "+filepath.Base(r.dst)))
			}
			if speed > 0 {
				b.WriteString("  " + st.speed.Render(ui.FormatRate(speed)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderProblems shows the newest failures. None are ever dropped from the
// list, only from the view.
func (f *feedView) renderProblems(limit int) string {
	var b strings.Builder
	for _, p := range f.problems[len(f.problems)-limit:] {
		b.WriteString("  " + st.failed.Render("✗") + "  ")
		if p.path != "" {
			b.WriteString(st.errPath.Render(ui.StripRoot(f.root, p.path)) + "  ")
		}
		b.WriteString(st.errText.Render(p.msg))
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *feedView) styledPath(path string) string {
	dir, base := filepath.Split(ui.StripRoot(f.root, path))
	if dir == "" {
		return st.name.Render(base)
	}
	return st.dir.Render(dir) + st.name.Render(base)
}
