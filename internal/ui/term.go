package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether the given file descriptor refers to a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// TermWidth returns the column count of the terminal behind w, or 0 when w
// is not a terminal.
func TermWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !IsTTY(f.Fd()) {
		return 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return 0
	}
	return cols
}
