package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/filescope/internal/filter"
)

func TestRunBenchmark(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	dstDir := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "notes.txt"), make([]byte, 4<<20), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "clip.mp4"), make([]byte, 1<<20), 0o644))

	result, err := RunBenchmark(context.Background(), srcDir, dstDir, filter.Active(filter.Videos))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(srcDir, "clip.mp4"), result.Sample)
	assert.Greater(t, result.ReadBytesPerSec, float64(0))
	assert.Greater(t, result.WriteBytesPerSec, float64(0))
	assert.Positive(t, result.SuggestedWorkers)

	// The scratch file is gone.
	left, err := os.ReadDir(dstDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRunBenchmark_NoMatchingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("text"), 0o644))

	_, err := RunBenchmark(context.Background(), dir, filepath.Join(dir, "out"), filter.Active(filter.Images))
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoSample)
}

func TestBenchRead_ShortFileAndCancel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.wav")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))

	bps, err := benchRead(context.Background(), path)
	require.NoError(t, err)
	assert.Positive(t, bps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = benchRead(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggestWorkers(t *testing.T) {
	t.Parallel()

	cpus := runtime.NumCPU()
	tests := []struct {
		name              string
		readBPS, writeBPS float64
		want              int
	}{
		{"NVMe", 3e9, 2.5e9, min(cpus*2, 32)},
		{"SSD", 500e6, 400e6, min(cpus, 16)},
		{"slow writer limits", 3e9, 50e6, min(cpus, 4)},
		{"HDD", 100e6, 80e6, min(cpus, 4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, suggestWorkers(tc.readBPS, tc.writeBPS))
		})
	}
}

func TestFormatBenchmark(t *testing.T) {
	t.Parallel()

	s := FormatBenchmark(BenchmarkResult{
		ReadBytesPerSec:  2 << 30,
		WriteBytesPerSec: 512 << 20,
		SuggestedWorkers: 24,
	})
	assert.Equal(t, "benchmark: read 2.0 GiB/s  write 512 MiB/s  suggested workers 24", s)
}
