// Package log provides a structured logging interface for regression
// diagnostics and evaluation.
//
// The Logger interface is slog-compatible so callers can plug in any backend;
// the package ships a zerolog-backed implementation (ZerologLogger), a slog
// setup helper with cockroachdb stack trace extraction, and a TestLogger that
// captures JSON lines in memory.
//
// Example usage:
//
//	logger := log.GetLogger().With(log.ComponentKey, "evaluation")
//	logger.Info("model evaluated",
//	    log.VariantKey, "boxcox_top10",
//	    log.MSEKey, 1.2e8,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// fields are alternating key-value pairs. Error additionally accepts an error
// value as the first field, which is recorded under the "error" key.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
