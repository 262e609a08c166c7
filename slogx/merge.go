package slogx

import (
	"context"
	"errors"
	"log/slog"
)

var _ slog.Handler = (*handlerJoiner)(nil)

type handlerJoiner struct {
	a, b slog.Handler
}

func (h *handlerJoiner) Enabled(ctx context.Context, level slog.Level) bool {
	return h.a.Enabled(ctx, level) || h.b.Enabled(ctx, level)
}

// Handle passes the record to each handler that is enabled for its level.
// Each handler gets its own clone of the record.
func (h *handlerJoiner) Handle(ctx context.Context, record slog.Record) error {
	var aerr, berr error
	if h.a.Enabled(ctx, record.Level) {
		aerr = h.a.Handle(ctx, record.Clone())
	}
	if h.b.Enabled(ctx, record.Level) {
		berr = h.b.Handle(ctx, record.Clone())
	}
	return errors.Join(aerr, berr)
}

func (h *handlerJoiner) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handlerJoiner{
		a: h.a.WithAttrs(attrs),
		b: h.b.WithAttrs(attrs),
	}
}

func (h *handlerJoiner) WithGroup(name string) slog.Handler {
	return &handlerJoiner{
		a: h.a.WithGroup(name),
		b: h.b.WithGroup(name),
	}
}

// MergeHandlers will merge many [slog.Handler] into one for a single interface for both.
// Nil handlers are skipped, and if only one non-nil handler remains it's returned as-is.
// MergeHandlers panics if every handler is nil.
func MergeHandlers(a, b slog.Handler, others ...slog.Handler) slog.Handler {
	var handlers []slog.Handler
	for _, h := range append([]slog.Handler{a, b}, others...) {
		if h != nil {
			handlers = append(handlers, h)
		}
	}
	if len(handlers) == 0 {
		panic("no handlers to merge")
	}
	merged := handlers[0]
	for _, h := range handlers[1:] {
		merged = &handlerJoiner{merged, h}
	}
	return merged
}
