package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bamsammich/filescope/internal/ui"
)

// logging is the logger set picked from --verbose, --quiet and --log.
type logging struct {
	logger *slog.Logger
	// eventLog writes per-file records to the --log file only. Nil without
	// --log.
	eventLog *slog.Logger
	close    func() error
}

func setupLogging(o *options, stderr io.Writer) (logging, error) {
	level := slog.LevelInfo
	switch {
	case o.verbose:
		level = slog.LevelDebug
	case o.quiet:
		level = slog.LevelWarn
	}
	text := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})

	l := logging{logger: slog.New(text), close: func() error { return nil }}
	if o.logFile == "" {
		return l, nil
	}

	lf, err := os.Create(o.logFile)
	if err != nil {
		return logging{}, fmt.Errorf("open log file: %w", err)
	}
	jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l.logger = slog.New(ui.NewMultiHandler(text, jsonHandler))
	l.eventLog = slog.New(jsonHandler)
	l.close = lf.Close
	return l, nil
}
