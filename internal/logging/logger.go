// Package logging provides bork's structured logging interface.
package logging

import (
	"log/slog"
	"os"

	"github.com/go-logr/logr"
)

// Logger is the structured logging interface used throughout bork.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// WithValues returns a Logger that always includes the given key/value
	// pairs, mirroring logr.Logger.WithValues so callers can attach
	// per-iteration context (e.g. iteration number) once.
	WithValues(fields ...any) Logger
}

// logrLogger adapts a logr.Logger, backed by a slog JSON handler, to the
// Logger interface.
type logrLogger struct {
	l logr.Logger
}

// New creates a Logger at the given level ("debug", "info", "warn",
// "error"), writing JSON records to stderr. The concrete backend is
// go-logr/logr wrapping a standard library slog.Logger, so debug-level
// verbosity is expressed as a logr V-level rather than a distinct method.
func New(level string) Logger {
	slogLevel := parseLevel(level)
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	l := logr.FromSlogHandler(handler)
	return &logrLogger{l: l}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// debugV is the logr V-level mapped to slog's Debug level (logr verbosity
// increases away from zero in the opposite direction slog severity does).
const debugV = -int(slog.LevelDebug)

func (g *logrLogger) Debug(msg string, fields ...any) {
	g.l.V(debugV).Info(msg, fields...)
}

func (g *logrLogger) Info(msg string, fields ...any) {
	g.l.Info(msg, fields...)
}

func (g *logrLogger) Warn(msg string, fields ...any) {
	// logr has no distinct warn level; record it as an Info at V(0) tagged
	// with a level field so the JSON record still reads as a warning.
	g.l.Info(msg, append([]any{"level", "warn"}, fields...)...)
}

func (g *logrLogger) Error(msg string, fields ...any) {
	g.l.Error(nil, msg, fields...)
}

func (g *logrLogger) WithValues(fields ...any) Logger {
	return &logrLogger{l: g.l.WithValues(fields...)}
}

// Discard returns a Logger that drops everything, for tests that don't care
// about log output.
func Discard() Logger {
	return &logrLogger{l: logr.Discard()}
}
