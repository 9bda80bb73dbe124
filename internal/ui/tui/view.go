package tui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/filescope/internal/ui"
)

// chromeLines is the header, banner, status and footer rows around the
// content area.
const chromeLines = 4

type keyHint struct{ key, label string }

var (
	runningHints = []keyHint{{"q", "quit"}, {"r", "rate"}, {"f", "feed"}, {"j/k", "scroll"}}
	doneHints    = []keyHint{{"s", "save"}, {"j/k", "scroll"}, {"r", "rate"}, {"f", "feed"}, {"any key", "close"}}
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{m.renderHeader(), m.renderBanner()}

	var content string
	if m.mode == viewRate {
		content = m.rate.view(m.width, m.lastSnap, m.stats, m.workers)
	} else {
		content = m.feed.view(m.width, max(m.height-chromeLines, 3), m.lastSpeed)
	}

	status := ""
	switch {
	case m.save.open:
		status = m.save.render()
	case m.statusMsg != "":
		status = st.status.Render("  " + m.statusMsg)
	}

	// content already ends in a newline when it is not empty.
	return strings.Join(lines, "\n") + "\n" + content + status + "\n" + m.renderFooter()
}

func (m Model) renderBanner() string {
	if !m.done {
		return st.banner.Render(m.banner)
	}
	text := m.banner
	if m.runErr != nil {
		text = fmt.Sprintf("%v. %s", m.runErr, text)
	}
	return st.bannerDone.Render(text)
}

func (m Model) renderHeader() string {
	s := m.lastSnap
	parts := []string{st.headerLabel.Render("filescope")}

	if m.done {
		state := st.copied.Render("done")
		if m.runErr != nil || s.FilesFailed+s.FilesVerifyFailed > 0 {
			state = st.failed.Render("done")
		}
		parts = append(parts,
			state,
			ui.FormatBytes(s.BytesCopied),
			fmt.Sprintf("%s / %s files", ui.FormatCount(s.FilesCopied), ui.FormatCount(s.FilesMatched)),
			ui.FormatDuration(s.Elapsed),
		)
		return st.header.Render("  " + strings.Join(parts, "  "))
	}

	// The matched totals keep growing while the walk runs.
	var frac float64
	if s.BytesMatched > 0 {
		frac = float64(s.BytesCopied) / float64(s.BytesMatched)
	}
	bar := st.barFilled
	if frac == 0 {
		bar = st.barEmpty
	}
	parts = append(parts,
		fmt.Sprintf("%3.0f%%", frac*100),
		bar.Render(ui.ProgressBar(frac, 10)),
		ui.FormatBytes(s.BytesCopied)+" / "+ui.FormatBytes(s.BytesMatched),
		fmt.Sprintf("%s / %s files", ui.FormatCount(s.FilesCopied), ui.FormatCount(s.FilesMatched)),
		ui.FormatCount(s.FilesDiscovered)+" scanned",
		"eta "+ui.FormatETA(m.lastETA),
		fmt.Sprintf("%dw", m.workers),
	)
	return st.header.Render("  " + strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	hints := runningHints
	if m.done {
		hints = doneHints
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = st.key.Render(h.key) + " " + st.keyLabel.Render(h.label)
	}
	return "  " + strings.Join(parts, "   ")
}
