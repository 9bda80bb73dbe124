package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Writer is the side of a Collector that the engine mutates.
type Writer interface {
	AddFilesDiscovered(n int64)
	AddFilesMatched(n int64)
	AddBytesMatched(n int64)
	AddFilesCopied(n int64)
	AddFilesFailed(n int64)
	AddFilesSkipped(n int64)
	AddBytesCopied(n int64)
	AddFilesVerified(n int64)
	AddFilesVerifyFailed(n int64)
}

// Reader is the read-only side used by presenters.
type Reader interface {
	Snapshot() Snapshot
	RollingSpeed(seconds int) float64
	RollingFilesPerSec(seconds int) float64
	SparklineData(n int) []float64
	ETA() time.Duration
}

// ReadTicker is a Reader that its presenter also advances once per second.
type ReadTicker interface {
	Reader
	Tick()
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesDiscovered   int64
	FilesMatched      int64
	BytesMatched      int64
	FilesCopied       int64
	FilesFailed       int64
	FilesSkipped      int64
	BytesCopied       int64
	FilesVerified     int64
	FilesVerifyFailed int64
	Elapsed           time.Duration
}

func (s Snapshot) String() string {
	return fmt.Sprintf("discovered=%d matched=%d copied=%d failed=%d skipped=%d bytes=%d",
		s.FilesDiscovered, s.FilesMatched, s.FilesCopied, s.FilesFailed, s.FilesSkipped, s.BytesCopied)
}

// Collector is the run's progress tracker. Workers bump its counters without
// locking; filesCopied is the progress counter and grows by exactly one per
// successful copy.
type Collector struct {
	start time.Time

	discovered, matched, matchedBytes atomic.Int64
	copied, copiedBytes               atomic.Int64
	failed, skipped                   atomic.Int64
	verified, verifyFailed            atomic.Int64

	// Sampling state, touched only by Tick and the readers.
	mu                   sync.Mutex
	bytesRate, filesRate ring
	prevBytes, prevFiles int64
}

// NewCollector creates a Collector whose clock starts now.
func NewCollector() *Collector {
	return &Collector{start: time.Now()}
}

func (c *Collector) AddFilesDiscovered(n int64)   { c.discovered.Add(n) }
func (c *Collector) AddFilesMatched(n int64)      { c.matched.Add(n) }
func (c *Collector) AddBytesMatched(n int64)      { c.matchedBytes.Add(n) }
func (c *Collector) AddFilesCopied(n int64)       { c.copied.Add(n) }
func (c *Collector) AddFilesFailed(n int64)       { c.failed.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)      { c.skipped.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.copiedBytes.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.verified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.verifyFailed.Add(n) }

// FilesCopied returns the current value of the progress counter.
func (c *Collector) FilesCopied() int64 { return c.copied.Load() }

// Elapsed returns the time since the collector was created.
func (c *Collector) Elapsed() time.Duration { return time.Since(c.start) }

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesDiscovered:   c.discovered.Load(),
		FilesMatched:      c.matched.Load(),
		BytesMatched:      c.matchedBytes.Load(),
		FilesCopied:       c.copied.Load(),
		FilesFailed:       c.failed.Load(),
		FilesSkipped:      c.skipped.Load(),
		BytesCopied:       c.copiedBytes.Load(),
		FilesVerified:     c.verified.Load(),
		FilesVerifyFailed: c.verifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Tick records what was copied since the previous Tick. Presenters call it
// once a second; the rolling rates assume that cadence.
func (c *Collector) Tick() {
	bytes, files := c.copiedBytes.Load(), c.copied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytesRate.push(bytes - c.prevBytes)
	c.filesRate.push(files - c.prevFiles)
	c.prevBytes, c.prevFiles = bytes, files
}

// RollingSpeed returns the mean bytes per second over the last n samples.
func (c *Collector) RollingSpeed(n int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytesRate.mean(n)
}

// RollingFilesPerSec returns the mean files per second over the last n samples.
func (c *Collector) RollingFilesPerSec(n int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filesRate.mean(n)
}

// SparklineData returns up to n bytes-per-second samples, oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytesRate.tail(n)
}

// ETA estimates the time left from the ten second rate. The walk keeps
// adding to the matched total while it runs, so early estimates are low.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	left := c.matchedBytes.Load() - c.copiedBytes.Load()
	if speed <= 0 || left <= 0 {
		return 0
	}
	return time.Duration(float64(left)/speed) * time.Second
}

// FormatBytes renders a byte count in binary units.
func FormatBytes(b int64) string {
	if b < 0 {
		return "-" + humanize.IBytes(uint64(-b))
	}
	return humanize.IBytes(uint64(b))
}
