package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bamsammich/filescope/internal/stats"
)

const (
	meterFull  = "▪"
	meterEmpty = "□"
)

// FormatBytes renders a byte count in binary units, matching the summaries.
func FormatBytes(b int64) string {
	return stats.FormatBytes(b)
}

// FormatRate renders a throughput in the same binary units as FormatBytes.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec < 1 {
		return "0 B/s"
	}
	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatETA is FormatDuration with "--" for an unknown estimate.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "--"
	}
	return FormatDuration(d)
}

// FormatDuration renders d to the second: "42s", "3m 07s", "1h 02m 03s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ProgressBar renders pct (clamped to [0,1]) as a width-cell meter.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = min(max(pct, 0), 1)
	return meter(int(pct*float64(width)), width)
}

// WorkerIndicator shows one cell per copy worker, filled while it is busy.
func WorkerIndicator(busy, total int) string {
	return meter(busy, total)
}

func meter(filled, width int) string {
	filled = min(max(filled, 0), width)
	return strings.Repeat(meterFull, filled) + strings.Repeat(meterEmpty, width-filled)
}
