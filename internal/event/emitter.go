package event

import (
	"sync"
	"time"
)

// Emitter is the sending side of a run's event stream. Per-file events are
// dropped when the buffer is full so a slow consumer never stalls the
// copy; one slot is always held back so the closing lifecycle event fits.
type Emitter struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewEmitter creates an emitter buffering up to size per-file events.
func NewEmitter(size int) *Emitter {
	if size < 1 {
		size = 1
	}
	return &Emitter{ch: make(chan Event, size+1)}
}

// C returns the receive side of the stream.
func (e *Emitter) C() <-chan Event {
	return e.ch
}

// Emit sends a per-file event if there is room, reporting whether it was
// delivered. Safe on a nil Emitter.
func (e *Emitter) Emit(ev Event) bool {
	if e == nil {
		return false
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || len(e.ch) >= cap(e.ch)-1 {
		return false
	}
	select {
	case e.ch <- ev:
		return true
	default:
		return false
	}
}

// Lifecycle sends an event that must not be lost. Only the run's owning
// goroutine calls it, and only with per-file senders quiesced for the
// final event, so the held-back slot guarantees it never blocks.
func (e *Emitter) Lifecycle(ev Event) {
	if e == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.ch <- ev
}

// Close closes the stream. Later sends are ignored.
func (e *Emitter) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
