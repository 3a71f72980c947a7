// Package logger provides the structured logger threaded through every
// component as logger.LoggerInterface, backed by log/slog — the ecosystem's
// structured-logging choice in this corpus (see nugget-thane-ai-agent's
// cmd/thane), since the connector has no other logging library in its
// dependency stack.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level controls the minimum severity emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoggerInterface is the contract every component depends on, so tests can
// substitute a no-op or recording logger.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, kvPairs ...any)
	Info(ctx context.Context, msg string, kvPairs ...any)
	Warn(ctx context.Context, msg string, kvPairs ...any)
	Error(ctx context.Context, msg string, kvPairs ...any)
	With(kvPairs ...any) LoggerInterface
}

// Logger is the slog-backed LoggerInterface implementation.
type Logger struct {
	sl *slog.Logger
}

var _ LoggerInterface = (*Logger)(nil)

// New builds a Logger writing JSON records to w at the given level, tagging
// every record with a "service" field.
func New(w io.Writer, level Level, service string, extra map[string]any) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	sl := slog.New(handler).With("service", service)
	for k, v := range extra {
		sl = sl.With(k, v)
	}
	return &Logger{sl: sl}
}

func (l *Logger) Debug(ctx context.Context, msg string, kvPairs ...any) {
	l.sl.DebugContext(ctx, msg, kvPairs...)
}

func (l *Logger) Info(ctx context.Context, msg string, kvPairs ...any) {
	l.sl.InfoContext(ctx, msg, kvPairs...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kvPairs ...any) {
	l.sl.WarnContext(ctx, msg, kvPairs...)
}

func (l *Logger) Error(ctx context.Context, msg string, kvPairs ...any) {
	l.sl.ErrorContext(ctx, msg, kvPairs...)
}

// With returns a LoggerInterface that prepends kvPairs to every record.
func (l *Logger) With(kvPairs ...any) LoggerInterface {
	return &Logger{sl: l.sl.With(kvPairs...)}
}

// Noop returns a LoggerInterface that discards every record, for tests.
func Noop() LoggerInterface {
	return New(io.Discard, LevelError, "noop", nil)
}
