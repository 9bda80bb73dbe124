// Package search runs one scan-and-copy request end to end: it prepares the
// output directory, streams the walk into the copy workers, optionally
// verifies the copies, and reports progress and completion as events.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bamsammich/filescope/internal/engine"
	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/platform"
	"github.com/bamsammich/filescope/internal/stats"
)

// Status text shown while a run is in progress and once it has finished.
const (
	StartedMessage  = "Processing files... This may take a few moments depending on the number of files in the directory. Please wait."
	CompleteMessage = "File processing is complete. Click anywhere to close this message and continue."
)

// ErrNotComplete is returned by Reveal before the run has finished.
var ErrNotComplete = errors.New("search is still running")

// State is the lifecycle position of a Run.
type State int32

const (
	Idle State = iota
	EnsuringOutputDir
	Scanning
	Complete
	Failed
	Cancelled
)

var stateNames = [...]string{
	Idle:              "idle",
	EnsuringOutputDir: "ensuring-output-dir",
	Scanning:          "scanning",
	Complete:          "complete",
	Failed:            "failed",
	Cancelled:         "cancelled",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == Complete || s == Failed || s == Cancelled
}

// Request describes one search. It is read, never modified, by the run.
type Request struct {
	Filter        *filter.Chain
	Root          string
	Output        string
	Categories    []filter.Category
	Workers       int
	BWLimit       int64
	Timeout       time.Duration
	Collision     engine.CollisionPolicy
	Verify        bool
	DryRun        bool
	PreserveMode  bool
	PreserveTimes bool
}

// eventBuffer is how many per-file events may queue before new ones drop.
const eventBuffer = 1024

// revealFunc is swapped out in tests.
var revealFunc = platform.Reveal

// Run is a search in progress. All methods are safe for concurrent use.
type Run struct {
	req     Request
	counter *stats.Collector
	events  *event.Emitter
	done    chan struct{}

	state      atomic.Int32
	canDismiss atomic.Bool
	revealOnce sync.Once
	outcome    engine.Outcome
}

// Start launches a search and returns immediately. The run executes on its
// own goroutine; ctx cancels it.
func Start(ctx context.Context, req Request) *Run {
	r := &Run{
		req:     req,
		counter: stats.NewCollector(),
		events:  event.NewEmitter(eventBuffer),
		done:    make(chan struct{}),
	}
	go r.run(ctx)
	return r
}

// Events returns the run's event stream. It starts with RunStarted, ends
// with RunComplete, and is closed after that. Per-file events are dropped
// when the consumer falls behind; the lifecycle events never are.
func (r *Run) Events() <-chan event.Event { return r.events.C() }

// Done is closed once the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes and returns its outcome.
func (r *Run) Wait() engine.Outcome {
	<-r.done
	return r.outcome
}

// State returns the current lifecycle state.
func (r *Run) State() State { return State(r.state.Load()) }

// CanDismiss reports whether the completion message may be dismissed.
func (r *Run) CanDismiss() bool { return r.canDismiss.Load() }

// Counter exposes the live progress counters.
func (r *Run) Counter() *stats.Collector { return r.counter }

// Request returns the request the run was started with.
func (r *Run) Request() Request { return r.req }

// Reveal opens the output directory in the native file manager. Only the
// first call after completion does anything; later calls return nil.
func (r *Run) Reveal() error {
	if !r.State().Terminal() {
		return ErrNotComplete
	}
	var err error
	r.revealOnce.Do(func() {
		err = revealFunc(r.req.Output)
	})
	return err
}

func (r *Run) setState(s State) {
	prev := State(r.state.Swap(int32(s)))
	slog.Debug("search state", "from", prev, "to", s)
}

func (r *Run) run(ctx context.Context) {
	start := time.Now()
	defer close(r.done)

	if r.req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.req.Timeout)
		defer cancel()
	}

	r.setState(EnsuringOutputDir)
	if err := ensureOutputDir(r.req.Output); err != nil {
		slog.Error("cannot prepare output directory", "dst", r.req.Output, "error", err)
		r.finish(Failed, engine.Outcome{Err: err, Elapsed: time.Since(start)})
		return
	}

	r.setState(Scanning)
	r.events.Lifecycle(event.Event{Type: event.RunStarted, Path: r.req.Root, Dst: r.req.Output, Message: StartedMessage})

	out, err := r.scan(ctx)
	out.Elapsed = time.Since(start)
	switch {
	case err != nil:
		out.Err = err
		r.finish(Failed, out)
	case ctx.Err() != nil:
		out.Err = ctx.Err()
		r.finish(Cancelled, out)
	default:
		r.finish(Complete, out)
	}
}

func (r *Run) scan(ctx context.Context) (engine.Outcome, error) {
	set := filter.Active(r.req.Categories...)
	slog.Info("search started",
		"root", r.req.Root, "dst", r.req.Output,
		"categories", r.req.Categories, "extensions", set.Len())

	wp, err := engine.NewWorkerPool(engine.WorkerConfig{
		Events:          r.events,
		Filter:          r.req.Filter,
		Workers:         r.req.Workers,
		BWLimit:         r.req.BWLimit,
		Collision:       r.req.Collision,
		PreserveMode:    r.req.PreserveMode,
		PreserveTimes:   r.req.PreserveTimes,
		DryRun:          r.req.DryRun,
		TrackPlacements: r.req.Verify && !r.req.DryRun,
	})
	if err != nil {
		return engine.Outcome{}, fmt.Errorf("create worker pool: %w", err)
	}

	workers := r.req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	walker := engine.NewWalker(engine.WalkerConfig{
		Root:    r.req.Root,
		SkipDir: r.req.Output,
		Filter:  r.req.Filter,
		Buffer:  workers * 64,
	})
	entries, walkErrs := walker.Walk(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range walkErrs {
			r.events.Emit(event.Event{Type: event.WalkError, Error: err})
		}
	}()

	out := wp.Dispatch(ctx, entries, set, r.req.Output, r.counter)
	wg.Wait()

	if r.req.Verify && !r.req.DryRun && ctx.Err() == nil {
		vr := engine.Verify(ctx, engine.VerifyConfig{
			Events:     r.events,
			Stats:      r.counter,
			Placements: wp.Placements(),
			Workers:    workers,
		})
		out.Verified = vr.Verified
		out.VerifyFailed = vr.Failed
		out.VerifyErrors = vr.Errors
	}
	return out, nil
}

func (r *Run) finish(state State, out engine.Outcome) {
	r.outcome = out
	r.setState(state)
	r.canDismiss.Store(true)

	attrs := []any{
		"state", state,
		"copied", out.Copied,
		"matched", out.Matched,
		"failed", len(out.Failed),
		"elapsed", out.Elapsed.Round(time.Millisecond),
	}
	if out.Err != nil {
		attrs = append(attrs, "error", out.Err)
	}
	slog.Info("search finished", attrs...)

	r.events.Lifecycle(event.Event{
		Type:    event.RunComplete,
		Path:    r.req.Root,
		Dst:     r.req.Output,
		Copied:  out.Copied,
		Message: CompleteMessage,
		Error:   out.Err,
	})
	r.events.Close()
}

func ensureOutputDir(dir string) error {
	if dir == "" {
		return errors.New("no output directory given")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
