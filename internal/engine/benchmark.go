package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bamsammich/filescope/internal/filter"
)

// BenchmarkResult holds throughput measurements.
type BenchmarkResult struct {
	Sample           string
	ReadBytesPerSec  float64
	WriteBytesPerSec float64
	SuggestedWorkers int
}

const (
	benchSize = 64 << 20
	// benchProbe bounds how many matching files are inspected for a sample.
	benchProbe = 256
)

var errNoSample = errors.New("no readable files")

// RunBenchmark reads a matching file under root and writes a scratch file in
// outputDir, and suggests a worker count from the slower of the two.
func RunBenchmark(ctx context.Context, root, outputDir string, set filter.ActiveSet) (BenchmarkResult, error) {
	var result BenchmarkResult

	sample, err := findBenchFile(ctx, root, set)
	if err != nil {
		return result, fmt.Errorf("read benchmark: %w", err)
	}
	result.Sample = sample

	result.ReadBytesPerSec, err = benchRead(ctx, sample)
	if err != nil {
		return result, fmt.Errorf("read benchmark: %w", err)
	}

	result.WriteBytesPerSec, err = benchWrite(ctx, outputDir)
	if err != nil {
		return result, fmt.Errorf("write benchmark: %w", err)
	}

	result.SuggestedWorkers = suggestWorkers(result.ReadBytesPerSec, result.WriteBytesPerSec)
	return result, nil
}

// findBenchFile returns the first matching file of at least benchSize, else
// the largest non-empty one among the first benchProbe matches.
func findBenchFile(ctx context.Context, root string, set filter.ActiveSet) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries, _ := NewWalker(WalkerConfig{Root: root, Buffer: 64}).Walk(ctx)

	var best Entry
	probed := 0
	for entry := range entries {
		if !filter.Match(entry.Path, entry.IsRegular(), set) || entry.Size == 0 {
			continue
		}
		if entry.Size > best.Size {
			best = entry
		}
		probed++
		if best.Size >= benchSize || probed >= benchProbe {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if best.Path == "" {
		return "", fmt.Errorf("%w under %s", errNoSample, root)
	}
	return best.Path, nil
}

// ctxReader fails reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// timed runs fn and converts the bytes it moved into bytes per second.
func timed(fn func() (int64, error)) (float64, error) {
	start := time.Now()
	n, err := fn()
	if err != nil {
		return 0, err
	}
	elapsed := max(time.Since(start), time.Microsecond)
	return float64(n) / elapsed.Seconds(), nil
}

// benchRead reads up to benchSize bytes of path. A shorter file is fine.
func benchRead(ctx context.Context, path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return timed(func() (int64, error) {
		n, err := io.CopyN(io.Discard, ctxReader{ctx, f}, benchSize)
		if errors.Is(err, io.EOF) {
			err = nil
		}
		return n, err
	})
}

// benchWrite writes benchSize zero bytes to a scratch file in dir and
// fsyncs it, so the figure reflects the disk rather than the page cache.
func benchWrite(ctx context.Context, dir string) (float64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	f, err := os.CreateTemp(dir, ".filescope-bench-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	return timed(func() (int64, error) {
		n, err := io.CopyN(f, ctxReader{ctx, zeros{}}, benchSize)
		if err == nil {
			err = f.Sync()
		}
		return n, err
	})
}

// workerTiers maps the slower of read and write throughput to a worker
// count. Media libraries are mostly many mid-sized files, so fast disks get
// more workers than cores.
var workerTiers = []struct {
	minBPS  float64
	workers func(cpus int) int
}{
	{2e9, func(cpus int) int { return min(cpus*2, 32) }}, // NVMe
	{200e6, func(cpus int) int { return min(cpus, 16) }}, // SSD
	{0, func(cpus int) int { return min(cpus, 4) }},      // HDD or network mount
}

func suggestWorkers(readBPS, writeBPS float64) int {
	slowest := min(readBPS, writeBPS)
	for _, tier := range workerTiers {
		if slowest >= tier.minBPS {
			return tier.workers(runtime.NumCPU())
		}
	}
	return 1
}

// FormatBenchmark formats a BenchmarkResult for display.
func FormatBenchmark(r BenchmarkResult) string {
	return fmt.Sprintf("benchmark: read %s/s  write %s/s  suggested workers %d",
		humanize.IBytes(uint64(r.ReadBytesPerSec)), humanize.IBytes(uint64(r.WriteBytesPerSec)), r.SuggestedWorkers)
}
