package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging_Levels(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		o         options
		info, dbg bool
	}{
		{"default", options{}, true, false},
		{"verbose", options{verbose: true}, true, true},
		{"quiet", options{quiet: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := setupLogging(&tt.o, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.info, l.logger.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.dbg, l.logger.Enabled(ctx, slog.LevelDebug))
			assert.True(t, l.logger.Enabled(ctx, slog.LevelWarn))
			assert.Nil(t, l.eventLog)
			assert.NoError(t, l.close())
		})
	}
}

// A warning logged during startup, such as a bad config file, must honour
// --quiet on the terminal and still land in the --log file.
func TestSetupLogging_LogFileGetsStartupWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var term bytes.Buffer
	o := options{quiet: true, logFile: path}

	l, err := setupLogging(&o, &term)
	require.NoError(t, err)
	require.NotNil(t, l.eventLog)

	l.logger.Info("dry run mode")
	l.logger.Warn("failed to load config", "path", "/etc/filescope.toml")
	l.eventLog.Info("filescope.event", "type", "FileCopied")
	require.NoError(t, l.close())

	assert.NotContains(t, term.String(), "dry run mode")
	assert.Contains(t, term.String(), "failed to load config")
	assert.NotContains(t, term.String(), "filescope.event")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"dry run mode"`)
	assert.Contains(t, string(data), `"msg":"failed to load config"`)
	assert.Contains(t, string(data), `"msg":"filescope.event"`)
}

func TestSetupLogging_BadLogPath(t *testing.T) {
	o := options{logFile: filepath.Join(t.TempDir(), "missing", "run.log")}
	_, err := setupLogging(&o, &bytes.Buffer{})
	assert.ErrorContains(t, err, "open log file")
}
