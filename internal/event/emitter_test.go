package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterDropsWhenFullButKeepsLifecycleSlot(t *testing.T) {
	e := NewEmitter(2)
	e.Lifecycle(Event{Type: RunStarted})

	assert.True(t, e.Emit(Event{Type: FileCopied}))
	assert.False(t, e.Emit(Event{Type: FileCopied}), "per-file event must not take the reserved slot")

	e.Lifecycle(Event{Type: RunComplete})
	e.Close()

	var got []Type
	for ev := range e.C() {
		got = append(got, ev.Type)
		assert.False(t, ev.Timestamp.IsZero())
	}
	assert.Equal(t, []Type{RunStarted, FileCopied, RunComplete}, got)
}

func TestEmitterConcurrentEmitNeverFillsReservedSlot(t *testing.T) {
	e := NewEmitter(8)
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				e.Emit(Event{Type: FileCopied})
			}
		}()
	}
	wg.Wait()

	require.Less(t, len(e.C()), cap(e.C()))
	e.Lifecycle(Event{Type: RunComplete})
	e.Close()

	var last Event
	for ev := range e.C() {
		last = ev
	}
	assert.Equal(t, RunComplete, last.Type)
}

func TestEmitterNilSafe(t *testing.T) {
	var e *Emitter
	assert.False(t, e.Emit(Event{Type: FileCopied}))
	e.Lifecycle(Event{Type: RunComplete})
	e.Close()
}

func TestEmitterSendAfterClose(t *testing.T) {
	e := NewEmitter(4)
	e.Close()
	e.Close()
	assert.False(t, e.Emit(Event{Type: FileCopied}))
	e.Lifecycle(Event{Type: RunComplete})

	_, ok := <-e.C()
	assert.False(t, ok)
}
