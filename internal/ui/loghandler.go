package ui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/filter"
)

// MultiHandler sends each record to every wrapped handler whose level admits
// it. The terminal and the --log file each keep their own level.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler returns a handler that writes to all of handlers.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle gives every handler its own clone so none can see another's attrs.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	next := make([]slog.Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		next = append(next, fn(h))
	}
	return &MultiHandler{handlers: next}
}

// eventLevel puts failures at warn so a log filtered to warnings still lists
// every file that did not make it.
func eventLevel(t event.Type) slog.Level {
	if t.Failure() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

func eventAttrs(ev Event) []slog.Attr {
	attrs := []slog.Attr{slog.String("type", ev.Type.String())}
	if ev.Path != "" {
		attrs = append(attrs, slog.String("path", ev.Path))
		if c, ok := filter.CategoryOf(ev.Path); ok {
			attrs = append(attrs, slog.String("category", string(c)))
		}
	}
	if ev.Dst != "" {
		attrs = append(attrs, slog.String("dst", ev.Dst))
	}
	if ev.Size != 0 {
		attrs = append(attrs, slog.Int64("size", ev.Size))
	}
	attrs = append(attrs, slog.Int64("copied", ev.Copied), slog.Int("worker", ev.WorkerID))
	if ev.Message != "" {
		attrs = append(attrs, slog.String("message", ev.Message))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	return attrs
}

// TeeEvents forwards every event from in to the returned channel and records
// each one on logger as a "filescope.event". The returned channel closes
// after in does.
func TeeEvents(in <-chan Event, logger *slog.Logger) <-chan Event {
	out := make(chan Event, cap(in))
	go func() {
		defer close(out)
		ctx := context.Background()
		for ev := range in {
			logger.LogAttrs(ctx, eventLevel(ev.Type), "filescope.event", eventAttrs(ev)...)
			out <- ev
		}
	}()
	return out
}
