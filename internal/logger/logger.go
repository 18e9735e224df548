package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	launcherlog "github.com/gxo-labs/launcher/pkg/launcher/v1/log"
	"go.opentelemetry.io/otel/trace"
)

// LevelFatal re-exports the public fatal severity for convenience.
const LevelFatal = launcherlog.LevelFatal

// Default log level if not specified or invalid.
const defaultLevel = slog.LevelInfo

// ParseLevel converts common log level strings (case-insensitive) to slog.Level values.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "FATAL":
		return LevelFatal
	default:
		return defaultLevel
	}
}

// defaultLogger implements the public launcherlog.Logger interface on top of slog.
type defaultLogger struct {
	*slog.Logger
	// level is shared by every logger derived through With, so raising the
	// verbosity after the configuration is read affects all components.
	level *slog.LevelVar
}

var _ launcherlog.Logger = (*defaultLogger)(nil)

// NewLogger creates a Logger with the given level, format ("text" or "json")
// and writer (defaults to os.Stderr).
func NewLogger(levelStr string, formatStr string, writer io.Writer) launcherlog.Logger {
	if writer == nil {
		writer = os.Stderr
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(levelStr))

	opts := &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceLevelAttribute,
	}

	var baseHandler slog.Handler
	switch strings.ToLower(formatStr) {
	case "json":
		baseHandler = slog.NewJSONHandler(writer, opts)
	case "text":
		fallthrough
	default:
		baseHandler = slog.NewTextHandler(writer, opts)
	}

	return &defaultLogger{
		Logger: slog.New(NewOtelHandler(baseHandler)),
		level:  levelVar,
	}
}

// NewDefaultLogger provides a text logger writing to Stderr.
func NewDefaultLogger(levelStr string) launcherlog.Logger {
	return NewLogger(levelStr, "text", os.Stderr)
}

var levelStringMap = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARN",
	slog.LevelError: "ERROR",
	LevelFatal:      "FATAL",
}

// replaceLevelAttribute renders the level attribute as an upper-case name,
// including the custom FATAL level that slog would print as "ERROR+4".
func replaceLevelAttribute(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		levelStr, exists := levelStringMap[level]
		if !exists {
			levelStr = level.String()
		}
		a.Value = slog.StringValue(levelStr)
	}
	return a
}

func (l *defaultLogger) Debugf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		l.Logger.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
	}
}

func (l *defaultLogger) Infof(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		l.Logger.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, args...))
	}
}

func (l *defaultLogger) Warnf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelWarn) {
		l.Logger.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...))
	}
}

// Errorf logs at ERROR. A trailing error argument is also logged structurally.
func (l *defaultLogger) Errorf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelError) {
		l.logHelper(context.Background(), slog.LevelError, fmt.Sprintf(format, args...), args...)
	}
}

// Fatalf logs at FATAL. It does not exit; the caller owns the exit code.
func (l *defaultLogger) Fatalf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), LevelFatal) {
		l.logHelper(context.Background(), LevelFatal, fmt.Sprintf(format, args...), args...)
	}
}

func (l *defaultLogger) DebugfCtx(ctx context.Context, format string, args ...interface{}) {
	if l.Logger.Enabled(ctx, slog.LevelDebug) {
		l.Logger.Log(ctx, slog.LevelDebug, fmt.Sprintf(format, args...))
	}
}

func (l *defaultLogger) WarnfCtx(ctx context.Context, format string, args ...interface{}) {
	if l.Logger.Enabled(ctx, slog.LevelWarn) {
		l.Logger.Log(ctx, slog.LevelWarn, fmt.Sprintf(format, args...))
	}
}

// FatalfCtx is Fatalf logged with ctx.
func (l *defaultLogger) FatalfCtx(ctx context.Context, format string, args ...interface{}) {
	if l.Logger.Enabled(ctx, LevelFatal) {
		l.logHelper(ctx, LevelFatal, fmt.Sprintf(format, args...), args...)
	}
}

// logHelper attaches structured attributes for launcher error types found
// as the last format argument.
func (l *defaultLogger) logHelper(ctx context.Context, level slog.Level, msg string, args ...interface{}) {
	var attrs []any
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			attrs = append(attrs, errorAttrs(err)...)
		}
	}
	l.Logger.Log(ctx, level, msg, attrs...)
}

func errorAttrs(err error) []any {
	var (
		tErr *launcherrors.TemplateError
		sErr *launcherrors.SpawnError
		pErr *launcherrors.PathError
	)
	attrs := []any{slog.String("error", err.Error())}
	switch {
	case errors.As(err, &tErr):
		attrs = append(attrs,
			slog.String("error_type", "TemplateError"),
			slog.String("key", tErr.Key),
			slog.String("kind", tErr.Kind.String()))
	case errors.As(err, &sErr):
		attrs = append(attrs,
			slog.String("error_type", "SpawnError"),
			slog.String("path", sErr.Path))
	case errors.As(err, &pErr):
		attrs = append(attrs,
			slog.String("error_type", "PathError"),
			slog.String("which", pErr.Which))
	}
	return attrs
}

func (l *defaultLogger) Log(level slog.Level, msg string, args ...interface{}) {
	l.Logger.Log(context.Background(), level, msg, args...)
}

func (l *defaultLogger) LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{}) {
	l.Logger.Log(ctx, level, msg, args...)
}

func (l *defaultLogger) With(args ...interface{}) launcherlog.Logger {
	return &defaultLogger{Logger: l.Logger.With(args...), level: l.level}
}

func (l *defaultLogger) IsEnabled(level slog.Level) bool {
	return l.Logger.Enabled(context.Background(), level)
}

func (l *defaultLogger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// --- OtelHandler for Trace/Span ID Injection ---

// OtelHandler is a slog.Handler middleware that injects trace_id and span_id
// attributes when the logging context carries a valid span.
type OtelHandler struct {
	next slog.Handler
}

// NewOtelHandler creates a new OtelHandler wrapping the provided handler.
func NewOtelHandler(next slog.Handler) *OtelHandler {
	return &OtelHandler{next: next}
}

func (h *OtelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *OtelHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		record.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return h.next.Handle(ctx, record)
}

func (h *OtelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewOtelHandler(h.next.WithAttrs(attrs))
}

func (h *OtelHandler) WithGroup(name string) slog.Handler {
	return NewOtelHandler(h.next.WithGroup(name))
}
