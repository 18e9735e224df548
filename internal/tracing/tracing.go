package tracing

import (
	"errors"
	"strings"

	"github.com/gxo-labs/launcher/internal/args"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans created by the launcher.
const TracerName = "github.com/gxo-labs/launcher"

// ArgvAttribute returns the child argument list as a span attribute, with
// sensitive key=value arguments masked.
func ArgvAttribute(argv []string, keywords map[string]struct{}) attribute.KeyValue {
	return attribute.StringSlice("launcher.child.argv", args.Redact(argv, keywords))
}

// RecordError records err on span and marks the span as failed. key=value
// words of the message whose key matches keywords are masked first.
func RecordError(span oteltrace.Span, err error, keywords map[string]struct{}) {
	if err == nil || span == nil || !span.IsRecording() {
		return
	}
	msg := strings.Join(args.Redact(strings.Split(err.Error(), " "), keywords), " ")
	span.RecordError(errors.New(msg))
	span.SetStatus(codes.Error, msg)
}
