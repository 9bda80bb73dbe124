package ui

import (
	"strings"

	"github.com/bamsammich/filescope/internal/stats"
)

// CompletionSummary renders the one-line report printed after a search:
//
//	done ✓  files 312 of 340  size 2.1 GiB  avg 64 MiB/s  time 3m 17s  errors 0
//
// "of N" appears only when some matched files were not copied; skipped and
// verified counts appear only when non-zero.
func CompletionSummary(snap stats.Snapshot) string {
	nerr := snap.FilesFailed + snap.FilesVerifyFailed
	icon := "✓"
	if nerr > 0 {
		icon = "✗"
	}

	files := FormatCount(snap.FilesCopied)
	if snap.FilesMatched > snap.FilesCopied {
		files += " of " + FormatCount(snap.FilesMatched)
	}

	var avg float64
	if secs := snap.Elapsed.Seconds(); secs > 0 {
		avg = float64(snap.BytesCopied) / secs
	}

	parts := []string{
		"done " + icon,
		"files " + files,
		"size " + FormatBytes(snap.BytesCopied),
		"avg " + FormatRate(avg),
		"time " + FormatDuration(snap.Elapsed),
	}
	if snap.FilesSkipped > 0 {
		parts = append(parts, "skipped "+FormatCount(snap.FilesSkipped))
	}
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		parts = append(parts, "verified "+FormatCount(snap.FilesVerified))
	}
	parts = append(parts, "errors "+FormatCount(nerr))
	return strings.Join(parts, "  ")
}
