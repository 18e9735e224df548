package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	launchlog "github.com/gxo-labs/launcher/pkg/launcher/v1/log"
	launchtracing "github.com/gxo-labs/launcher/pkg/launcher/v1/tracing"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/encoding/gzip"
)

const (
	defaultGRPCEndpoint = "localhost:4317"
	defaultHTTPEndpoint = "localhost:4318"
	defaultServiceName  = "launcher"
	defaultTimeout      = 10 * time.Second
)

// OtelTracerProvider implements launchtracing.TracerProvider with either the
// OpenTelemetry SDK or a no-op provider.
type OtelTracerProvider struct {
	provider trace.TracerProvider
	// sdkProvider is nil when tracing is disabled.
	sdkProvider *sdktrace.TracerProvider
}

// NewNoOpProvider returns a provider that records nothing.
func NewNoOpProvider() *OtelTracerProvider {
	return &OtelTracerProvider{provider: noop.NewTracerProvider()}
}

// NewProviderFromEnv configures tracing from the standard OTEL_* environment
// variables. Tracing is only enabled when an OTLP endpoint is configured
// (OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_TRACES_ENDPOINT) and
// OTEL_SDK_DISABLED is not "true"; otherwise a no-op provider is returned.
// Diagnostics go to log, never to standard output, which belongs to the child.
// The global OTel provider is not modified.
func NewProviderFromEnv(ctx context.Context, log launchlog.Logger) (*OtelTracerProvider, error) {
	return newProvider(ctx, log, os.Getenv)
}

func newProvider(ctx context.Context, log launchlog.Logger, getenv func(string) string) (*OtelTracerProvider, error) {
	if strings.EqualFold(getenv("OTEL_SDK_DISABLED"), "true") {
		log.Debugf("OpenTelemetry tracing disabled via OTEL_SDK_DISABLED")
		return NewNoOpProvider(), nil
	}
	if getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
		log.Debugf("No OTLP endpoint configured, tracing disabled")
		return NewNoOpProvider(), nil
	}

	exporter, err := createExporter(ctx, log, getenv)
	if err != nil {
		return NewNoOpProvider(), err
	}

	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName(getenv))),
		resource.WithProcess(), resource.WithOS(), resource.WithHost(),
	)
	if err != nil {
		log.Warnf("Failed to detect OTel resource, using default: %v", err)
		res = resource.Default()
	}

	sdkTP := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	return &OtelTracerProvider{provider: sdkTP, sdkProvider: sdkTP}, nil
}

// createExporter builds an OTLP gRPC or HTTP exporter according to
// OTEL_EXPORTER_OTLP_PROTOCOL.
func createExporter(ctx context.Context, log launchlog.Logger, getenv func(string) string) (sdktrace.SpanExporter, error) {
	protocol := strings.ToLower(getenv("OTEL_EXPORTER_OTLP_PROTOCOL"))
	if protocol == "" {
		protocol = "grpc"
	}
	endpoint := getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	headers := parseHeaders(getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	timeout := parseTimeout(getenv("OTEL_EXPORTER_OTLP_TIMEOUT"), defaultTimeout)
	gzipped := strings.EqualFold(getenv("OTEL_EXPORTER_OTLP_COMPRESSION"), "gzip")
	insecure := isInsecure(getenv("OTEL_EXPORTER_OTLP_INSECURE"), getenv("OTEL_EXPORTER_OTLP_TRACES_INSECURE"))

	switch protocol {
	case "grpc":
		if endpoint == "" {
			endpoint = defaultGRPCEndpoint
		}
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithHeaders(headers),
			otlptracegrpc.WithTimeout(timeout),
		}
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		} else {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
		}
		if gzipped {
			opts = append(opts, otlptracegrpc.WithCompressor(gzip.Name))
		}
		log.Debugf("Configuring OTLP gRPC exporter (endpoint: %s, insecure: %t, gzip: %t)", endpoint, insecure, gzipped)
		return otlptracegrpc.New(ctx, opts...)

	case "http", "http/protobuf":
		if endpoint == "" {
			endpoint = defaultHTTPEndpoint
		}
		urlPath := getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
		if urlPath == "" {
			urlPath = "/v1/traces"
		}
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithURLPath(urlPath),
			otlptracehttp.WithHeaders(headers),
			otlptracehttp.WithTimeout(timeout),
		}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if gzipped {
			opts = append(opts, otlptracehttp.WithCompression(otlptracehttp.GzipCompression))
		}
		log.Debugf("Configuring OTLP HTTP exporter (endpoint: %s%s, insecure: %t, gzip: %t)", endpoint, urlPath, insecure, gzipped)
		return otlptracehttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}
}

// GetTracer returns a named tracer from the configured provider.
func (p *OtelTracerProvider) GetTracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if p == nil || p.provider == nil {
		return noop.NewTracerProvider().Tracer(name, opts...)
	}
	return p.provider.Tracer(name, opts...)
}

// Shutdown flushes buffered spans and stops the exporter. It is a no-op for
// the no-op provider.
func (p *OtelTracerProvider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdkProvider == nil {
		return nil
	}
	if err := p.sdkProvider.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

// IsEffectivelyNoOp reports whether spans are discarded.
func (p *OtelTracerProvider) IsEffectivelyNoOp() bool {
	return p == nil || p.sdkProvider == nil
}

func serviceName(getenv func(string) string) string {
	if name := getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return defaultServiceName
}

// parseHeaders converts "k1=v1,k2=v2" into a map, skipping malformed pairs.
func parseHeaders(s string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		k = strings.TrimSpace(k)
		if ok && k != "" {
			headers[k] = strings.TrimSpace(v)
		}
	}
	return headers
}

// parseTimeout accepts integer milliseconds (the OTLP convention) or a Go
// duration string.
func parseTimeout(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return def
		}
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	return def
}

func isInsecure(flags ...string) bool {
	for _, f := range flags {
		if strings.EqualFold(strings.TrimSpace(f), "true") {
			return true
		}
	}
	return false
}

var _ launchtracing.TracerProvider = (*OtelTracerProvider)(nil)
