package engine

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBWLimiter(t *testing.T) {
	assert.Nil(t, NewBWLimiter(0))
	assert.Nil(t, NewBWLimiter(-1))
	assert.Equal(t, 1024, NewBWLimiter(1024).Burst())
	assert.Equal(t, maxBurst, NewBWLimiter(50<<20).Burst())
}

func TestThrottleNilLimiterIsPassthrough(t *testing.T) {
	r := strings.NewReader("raw")
	assert.Same(t, r, throttle(context.Background(), r, nil))
}

func TestThrottledReader(t *testing.T) {
	t.Parallel()

	t.Run("delivers everything", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("x"), 4096)
		got, err := io.ReadAll(throttle(context.Background(), bytes.NewReader(data), NewBWLimiter(1<<20)))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("reads are capped at the burst", func(t *testing.T) {
		t.Parallel()
		r := throttle(context.Background(), bytes.NewReader(make([]byte, 8192)), NewBWLimiter(2048))
		n, err := r.Read(make([]byte, 1<<20))
		require.NoError(t, err)
		assert.Equal(t, 2048, n)
	})

	t.Run("holds the rate", func(t *testing.T) {
		t.Parallel()
		// The burst covers the first 5 KiB; the other 5 KiB wait about a second.
		data := bytes.Repeat([]byte("a"), 10*1024)
		r := throttle(context.Background(), bytes.NewReader(data), NewBWLimiter(5*1024))

		start := time.Now()
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Len(t, got, len(data))
		assert.Greater(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := throttle(ctx, bytes.NewReader(make([]byte, 1<<20)), NewBWLimiter(1024))

		_, err := io.ReadAll(r)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
