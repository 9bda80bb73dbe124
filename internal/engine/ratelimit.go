package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// maxBurst bounds a single limiter grant and so the largest read.
const maxBurst = 1 << 20

// NewBWLimiter returns a limiter holding every worker together to
// bytesPerSec, or nil when bytesPerSec leaves the copy unlimited.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), int(min(bytesPerSec, maxBurst)))
}

// throttle wraps r so reads pay for their bytes from lim. A nil lim
// returns r unchanged.
func throttle(ctx context.Context, r io.Reader, lim *rate.Limiter) io.Reader {
	if lim == nil {
		return r
	}
	return &throttledReader{ctx: ctx, src: r, lim: lim}
}

type throttledReader struct {
	ctx context.Context
	src io.Reader
	lim *rate.Limiter
}

// Read never asks for more than one burst, since WaitN rejects that.
func (t *throttledReader) Read(p []byte) (int, error) {
	n, err := t.src.Read(p[:min(len(p), t.lim.Burst())])
	if n == 0 {
		return 0, err
	}
	if werr := t.lim.WaitN(t.ctx, n); werr != nil {
		return n, werr
	}
	return n, err
}
