package slogx

import (
	"context"
	"log/slog"
)

var _ slog.Handler = discardHandler{}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

// NewDiscardLogger creates a logger that drops every record.
func NewDiscardLogger() *slog.Logger {
	return slog.New(discardHandler{})
}
