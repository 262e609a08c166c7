package main

import (
	"fmt"
	charm "github.com/charmbracelet/log"
	"github.com/saylorsolutions/typebus/slogx"
	"golang.org/x/term"
	"io"
	"log/slog"
	"os"
	"strings"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the logger described by conf, writing to console.
// If a log file is configured it also receives every record as JSON, and the returned closer closes it.
func newLogger(conf Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := conf.Level()
	if err != nil {
		return nil, nil, err
	}
	var handler slog.Handler
	switch resolveFormat(conf.LogFormat, console) {
	case FormatPretty:
		handler = charm.NewWithOptions(console, charm.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
		})
	case FormatJSON:
		handler = slog.NewJSONHandler(console, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	}
	if len(conf.LogFile) == 0 {
		return slog.New(handler), nopCloser{}, nil
	}
	f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(slogx.MergeHandlers(handler, fileHandler)), f, nil
}

// resolveFormat picks pretty output for terminals when the format is auto.
func resolveFormat(format string, console io.Writer) string {
	format = strings.ToLower(format)
	if format != FormatAuto {
		return format
	}
	if f, ok := console.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatPretty
	}
	return FormatText
}

func charmLevel(level slog.Level) charm.Level {
	switch {
	case level <= slog.LevelDebug:
		return charm.DebugLevel
	case level <= slog.LevelInfo:
		return charm.InfoLevel
	case level <= slog.LevelWarn:
		return charm.WarnLevel
	default:
		return charm.ErrorLevel
	}
}
