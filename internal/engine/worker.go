package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/platform"
	"github.com/bamsammich/filescope/internal/stats"
)

// WorkerConfig controls worker behavior.
type WorkerConfig struct {
	Events        *event.Emitter
	Filter        *filter.Chain
	Workers       int
	BWLimit       int64 // bytes/sec across all workers, 0 = unlimited
	Collision     CollisionPolicy
	PreserveMode  bool
	PreserveTimes bool
	DryRun        bool
	// TrackPlacements records which source ended up at each destination,
	// for a later Verify pass.
	TrackPlacements bool
}

// Placement is a source file and the destination it finally landed at.
type Placement struct {
	Src string
	Dst string
}

// WorkerPool copies matched entries into a flat output directory.
type WorkerPool struct {
	cfg     WorkerConfig
	limiter *rate.Limiter
	tmps    tempFiles

	mu         sync.Mutex
	failed     []FileError
	placements map[string]string // dst -> src
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(cfg WorkerConfig) (*WorkerPool, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BWLimit < 0 {
		return nil, fmt.Errorf("negative bandwidth limit %d", cfg.BWLimit)
	}
	if cfg.Collision < Overwrite || cfg.Collision > Skip {
		return nil, fmt.Errorf("invalid collision policy %d", cfg.Collision)
	}

	return &WorkerPool{
		cfg:        cfg,
		placements: make(map[string]string),
		limiter:    NewBWLimiter(cfg.BWLimit),
	}, nil
}

// Dispatch consumes entries until the channel closes, copying every entry
// that matches set into outputDir. It returns once each entry has been
// copied, failed, or skipped. On cancellation the remaining entries are
// drained without copying and Outcome.Err carries the context error.
func (wp *WorkerPool) Dispatch(
	ctx context.Context,
	entries <-chan Entry,
	set filter.ActiveSet,
	outputDir string,
	counter *stats.Collector,
) Outcome {
	if counter == nil {
		counter = stats.NewCollector()
	}
	names := newNameRegistry(outputDir, wp.cfg.Collision)

	var wg sync.WaitGroup
	for id := range wp.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entries {
				counter.AddFilesDiscovered(1)
				if ctx.Err() != nil {
					continue
				}
				wp.process(ctx, id, entry, set, names, counter)
			}
		}()
	}
	wg.Wait()
	wp.tmps.sweep()

	snap := counter.Snapshot()
	wp.mu.Lock()
	failed := append([]FileError(nil), wp.failed...)
	wp.mu.Unlock()

	out := Outcome{
		Failed:     failed,
		Discovered: snap.FilesDiscovered,
		Matched:    snap.FilesMatched,
		Copied:     snap.FilesCopied,
		Skipped:    snap.FilesSkipped,
		Bytes:      snap.BytesCopied,
		Elapsed:    snap.Elapsed,
	}
	if err := ctx.Err(); err != nil {
		out.Err = err
	}
	return out
}

// Placements returns the final source for every destination written, sorted
// by destination.
func (wp *WorkerPool) Placements() []Placement {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	out := make([]Placement, 0, len(wp.placements))
	for dst, src := range wp.placements {
		out = append(out, Placement{Src: src, Dst: dst})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dst < out[j].Dst })
	return out
}

func (wp *WorkerPool) process(
	ctx context.Context,
	workerID int,
	entry Entry,
	set filter.ActiveSet,
	names *nameRegistry,
	counter *stats.Collector,
) {
	if !filter.Match(entry.Path, entry.IsRegular(), set) {
		return
	}
	if !wp.cfg.Filter.Match(entry.RelPath, false, entry.Size) {
		return
	}
	counter.AddFilesMatched(1)
	counter.AddBytesMatched(entry.Size)

	dst, ok := names.claim(entry.Name)
	if !ok {
		counter.AddFilesSkipped(1)
		slog.Debug("skipped name collision", "src", entry.Path, "name", entry.Name)
		wp.emit(event.Event{Type: event.FileSkipped, Path: entry.Path, Message: "name already taken", WorkerID: workerID})
		return
	}

	if wp.cfg.DryRun {
		counter.AddFilesSkipped(1)
		wp.emit(event.Event{Type: event.FileSkipped, Path: entry.Path, Dst: dst, Size: entry.Size, Message: "dry run", WorkerID: workerID})
		return
	}

	wp.emit(event.Event{Type: event.FileStarted, Path: entry.Path, Dst: dst, Size: entry.Size, WorkerID: workerID})

	n, err := wp.copyEntry(ctx, entry, dst)
	if err != nil {
		counter.AddFilesFailed(1)
		wp.mu.Lock()
		wp.failed = append(wp.failed, FileError{Src: entry.Path, Dst: dst, Err: err})
		wp.mu.Unlock()
		slog.Warn("copy failed", "src", entry.Path, "dst", dst, "error", err)
		wp.emit(event.Event{Type: event.FileFailed, Path: entry.Path, Dst: dst, Size: entry.Size, Error: err, WorkerID: workerID})
		return
	}

	counter.AddBytesCopied(n)
	counter.AddFilesCopied(1)
	slog.Debug("copied", "src", entry.Path, "dst", dst, "bytes", n)
	wp.emit(event.Event{
		Type:     event.FileCopied,
		Path:     entry.Path,
		Dst:      dst,
		Size:     n,
		Copied:   counter.FilesCopied(),
		WorkerID: workerID,
	})
}

// copyEntry writes entry to a temp file next to dst and renames it into
// place, so readers never observe a partial file.
func (wp *WorkerPool) copyEntry(ctx context.Context, entry Entry, dst string) (int64, error) {
	tmpFd, release, err := wp.tmps.create(dst)
	if err != nil {
		return 0, fmt.Errorf("create tmp: %w", err)
	}
	defer release() // no-op once renamed

	res, err := wp.copyData(ctx, entry, tmpFd)
	if err != nil {
		tmpFd.Close()
		return 0, fmt.Errorf("copy data: %w", err)
	}
	n := res.BytesWritten
	slog.Debug("copy method", "src", entry.Path, "method", res.Method)

	wp.setMetadata(entry, tmpFd)

	if err := tmpFd.Close(); err != nil {
		return 0, fmt.Errorf("close tmp: %w", err)
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()
	if err := os.Rename(tmpFd.Name(), dst); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	if wp.cfg.TrackPlacements {
		wp.placements[dst] = entry.Path
	}
	return n, nil
}

func (wp *WorkerPool) copyData(ctx context.Context, entry Entry, dstFd *os.File) (platform.CopyResult, error) {
	if wp.limiter == nil {
		return platform.CopyFile(platform.CopyFileParams{
			SrcPath: entry.Path,
			DstFd:   dstFd,
			SrcSize: entry.Size,
		})
	}

	src, err := os.Open(entry.Path)
	if err != nil {
		return platform.CopyResult{}, err
	}
	defer src.Close()

	return platform.CopyStream(dstFd, throttle(ctx, src, wp.limiter))
}

// setMetadata applies mode and times. Failures are logged, never fatal.
func (wp *WorkerPool) setMetadata(entry Entry, fd *os.File) {
	if wp.cfg.PreserveMode {
		if err := platform.SetMode(fd, entry.Mode); err != nil {
			slog.Debug("preserve mode failed", "src", entry.Path, "error", err)
		}
	}
	if wp.cfg.PreserveTimes {
		if err := platform.SetTimes(fd, entry.AccTime, entry.ModTime); err != nil {
			slog.Debug("preserve times failed", "src", entry.Path, "error", err)
		}
	}
}

func (wp *WorkerPool) emit(e event.Event) {
	wp.cfg.Events.Emit(e)
}
