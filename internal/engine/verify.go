package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/stats"
)

// VerifyConfig controls the post-copy verification pass.
type VerifyConfig struct {
	Events     *event.Emitter
	Stats      stats.Writer
	Placements []Placement
	Workers    int
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Errors   []VerifyError
	Verified int64
	Failed   int64
}

// VerifyError records a destination that does not match its source.
type VerifyError struct {
	Src string
	Dst string
	Err error // read failure; nil means the digests differ
}

func (e VerifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verify %s: %v", e.Dst, e.Err)
	}
	return fmt.Sprintf("verify %s: checksum differs from %s", e.Dst, e.Src)
}

// Verify compares the BLAKE3 digest of every placed destination against
// its source, fanning out to cfg.Workers goroutines.
func Verify(ctx context.Context, cfg VerifyConfig) VerifyResult {
	cfg.Events.Emit(event.Event{Type: event.VerifyStarted})

	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	taskCh := make(chan Placement, workers*2)
	var mu sync.Mutex
	var result VerifyResult
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range taskCh {
				if ctx.Err() != nil {
					continue
				}
				err := compareFiles(p.Src, p.Dst)

				mu.Lock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, verifyErrorFor(p, err))
				} else {
					result.Verified++
				}
				mu.Unlock()

				if err != nil {
					if cfg.Stats != nil {
						cfg.Stats.AddFilesVerifyFailed(1)
					}
					cfg.Events.Emit(event.Event{Type: event.VerifyFailed, Path: p.Src, Dst: p.Dst, Error: err})
					continue
				}
				if cfg.Stats != nil {
					cfg.Stats.AddFilesVerified(1)
				}
				cfg.Events.Emit(event.Event{Type: event.VerifyOK, Path: p.Src, Dst: p.Dst})
			}
		}()
	}

	for _, p := range cfg.Placements {
		if ctx.Err() != nil {
			break
		}
		taskCh <- p
	}
	close(taskCh)
	wg.Wait()

	return result
}

var errChecksumMismatch = errors.New("checksum mismatch")

func verifyErrorFor(p Placement, err error) VerifyError {
	ve := VerifyError{Src: p.Src, Dst: p.Dst}
	if !errors.Is(err, errChecksumMismatch) {
		ve.Err = err
	}
	return ve
}

func compareFiles(src, dst string) error {
	srcSum, err := HashFile(src)
	if err != nil {
		return err
	}
	dstSum, err := HashFile(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(srcSum, dstSum) {
		return errChecksumMismatch
	}
	return nil
}

// HashFile returns the BLAKE3 digest of the file at path.
func HashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}
