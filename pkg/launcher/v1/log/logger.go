// Package log defines the public logging interface used across launcher packages.
package log

import (
	"context"
	"log/slog"
)

// LevelFatal is the severity used for failures that end a launch attempt.
// Logging at this level never terminates the process; callers decide the
// exit code.
const LevelFatal = slog.Level(12)

// Logger defines the logging operations available to launcher components.
type Logger interface {
	// Debugf logs a formatted message at the DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof logs a formatted message at the INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs a formatted message at the WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs a formatted message at the ERROR level. If the last
	// argument is an error it is also attached as a structured attribute.
	Errorf(format string, args ...interface{})
	// Fatalf logs a formatted message at the FATAL level.
	Fatalf(format string, args ...interface{})

	// DebugfCtx, WarnfCtx and FatalfCtx are the formatted variants that log
	// with ctx, so the active span's trace and span ids are attached.
	DebugfCtx(ctx context.Context, format string, args ...interface{})
	WarnfCtx(ctx context.Context, format string, args ...interface{})
	FatalfCtx(ctx context.Context, format string, args ...interface{})

	// Log logs a message at the given level with key-value attributes.
	Log(level slog.Level, msg string, args ...interface{})
	// LogCtx is Log with a context, so trace ids can be attached.
	LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{})

	// With returns a Logger that adds the given attributes to every entry.
	With(args ...interface{}) Logger
	// IsEnabled reports whether entries at level would be written.
	IsEnabled(level slog.Level) bool
	// SetLevel changes the minimum level. Loggers derived with With share it.
	SetLevel(level slog.Level)
}
