package engine

import (
	"fmt"
	"time"
)

// FileError records one file that could not be copied.
type FileError struct {
	Src string
	Dst string
	Err error
}

func (e FileError) Error() string {
	return fmt.Sprintf("copy %s -> %s: %v", e.Src, e.Dst, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// Outcome is the final report of a search run.
type Outcome struct {
	Failed       []FileError
	VerifyErrors []VerifyError
	Err          error // precondition failure or cancellation
	Elapsed      time.Duration
	Discovered   int64
	Matched      int64
	Copied       int64
	Skipped      int64
	Bytes        int64
	Verified     int64
	VerifyFailed int64
}

// OK reports whether the run finished with every match copied and verified.
func (o Outcome) OK() bool {
	return o.Err == nil && len(o.Failed) == 0 && o.VerifyFailed == 0
}

// FailureSummary folds the per-file failures into one error, or nil.
func (o Outcome) FailureSummary() error {
	if len(o.Failed) == 0 {
		return nil
	}
	first := error(o.Failed[0])
	if n := len(o.Failed); n > 1 {
		return fmt.Errorf("%w (and %d more errors)", first, n-1)
	}
	return first
}
