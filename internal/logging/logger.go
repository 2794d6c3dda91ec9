// Package logging defines the structured logger used across the service.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "listening", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New builds a JSON logger for production and a text logger otherwise
func New(production bool) *SlogLogger {
	return NewWithWriter(os.Stdout, production)
}

func NewWithWriter(w io.Writer, production bool) *SlogLogger {
	if production {
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
	}
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// Discard returns a logger that drops everything; handy in tests
func Discard() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
