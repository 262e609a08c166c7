package slogx

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

var _ slog.Handler = (*CaptureHandler)(nil)

// CaptureHandler keeps every handled record in memory so log output can be inspected, which is mostly useful in tests.
// Attributes added with WithAttrs are folded into the captured records, and groups are ignored.
type CaptureHandler struct {
	level slog.Leveler
	attrs []slog.Attr
	store *captureStore
}

type captureStore struct {
	mux     sync.Mutex
	records []slog.Record
}

// NewCaptureHandler creates a [CaptureHandler] that captures records at or above the given level.
func NewCaptureHandler(level slog.Leveler) *CaptureHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CaptureHandler{
		level: level,
		store: new(captureStore),
	}
}

func (h *CaptureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CaptureHandler) Handle(_ context.Context, record slog.Record) error {
	record = record.Clone()
	if len(h.attrs) > 0 {
		record.AddAttrs(h.attrs...)
	}
	h.store.mux.Lock()
	defer h.store.mux.Unlock()
	h.store.records = append(h.store.records, record)
	return nil
}

func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CaptureHandler{
		level: h.level,
		attrs: append(slices.Clip(h.attrs), attrs...),
		store: h.store,
	}
}

func (h *CaptureHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Records returns a copy of every record captured so far, including those captured by derived handlers.
func (h *CaptureHandler) Records() []slog.Record {
	h.store.mux.Lock()
	defer h.store.mux.Unlock()
	return slices.Clone(h.store.records)
}

// Messages returns the message of each captured record in order.
func (h *CaptureHandler) Messages() []string {
	records := h.Records()
	msgs := make([]string, len(records))
	for i, r := range records {
		msgs[i] = r.Message
	}
	return msgs
}

// Reset discards all captured records.
func (h *CaptureHandler) Reset() {
	h.store.mux.Lock()
	defer h.store.mux.Unlock()
	h.store.records = nil
}

// Attr looks up an attribute on a captured record by key.
func Attr(record slog.Record, key string) (slog.Value, bool) {
	var (
		found slog.Value
		ok    bool
	)
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found, ok = attr.Value, true
			return false
		}
		return true
	})
	return found, ok
}
