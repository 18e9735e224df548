package v1

import (
	"context"

	"github.com/gxo-labs/launcher/internal/config"
	"github.com/gxo-labs/launcher/internal/paths"
	"github.com/gxo-labs/launcher/internal/process"
	"github.com/gxo-labs/launcher/pkg/launcher/v1/metrics"
	"github.com/gxo-labs/launcher/pkg/launcher/v1/tracing"
)

// Exit codes surfaced by the launcher. Any other value is the child's own
// exit status.
const (
	// ExitConfigFailure is returned when the resources path, the support
	// path or the configuration file cannot be resolved or loaded.
	ExitConfigFailure = 5
	// ExitSpawnFailure is returned when the child could not be started or
	// terminated abnormally (signal, crash).
	ExitSpawnFailure = process.ExitAbnormal
	// ExitRestart is reserved: a child exiting with this code asks the
	// launcher to run the whole pipeline again. Applications must not use it
	// for any other meaning.
	ExitRestart = 17
)

// LauncherV1 defines the public interface of the bootstrap launcher.
type LauncherV1 interface {
	// Run executes passes until one ends with a code other than ExitRestart
	// and returns that code.
	Run(ctx context.Context) int
	// RunOnce executes a single pass: load configuration, resolve paths and
	// templated values, build the argument vector, run the child.
	RunOnce(ctx context.Context) int
	// Passes returns how many passes have been started.
	Passes() int

	// MetricsRegistryProvider returns the underlying metrics provider.
	MetricsRegistryProvider() metrics.RegistryProvider
	// TracerProvider returns the underlying tracing provider.
	TracerProvider() tracing.TracerProvider

	// Setter methods for configuring launcher components programmatically.
	SetRunner(runner process.Runner) error
	SetPathResolver(resolver paths.Resolver) error
	SetConfigLoader(loader config.Loader) error
	SetConfigFile(path string) error
	SetApplicationName(name string) error
	SetPlatform(goos string) error
	SetMetricsRegistryProvider(provider metrics.RegistryProvider) error
	SetTracerProvider(provider tracing.TracerProvider) error
	SetRedactedKeywords(keywords []string) error
}

// LauncherOption is a function type used to configure the launcher at creation.
type LauncherOption func(LauncherV1) error

// WithRunner sets the process runner used to spawn the child.
func WithRunner(runner process.Runner) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetRunner(runner)
	}
}

// WithPathResolver sets the platform paths resolver.
func WithPathResolver(resolver paths.Resolver) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetPathResolver(resolver)
	}
}

// WithConfigLoader sets the loader used at the start of every pass.
func WithConfigLoader(loader config.Loader) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetConfigLoader(loader)
	}
}

// WithConfigFile overrides the default "<resources>/config" location.
func WithConfigFile(path string) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetConfigFile(path)
	}
}

// WithApplicationName sets the support directory name used when the
// configuration does not specify launcher.application.
func WithApplicationName(name string) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetApplicationName(name)
	}
}

// WithPlatform overrides the operating system used to pick the platform.*
// argument list. It defaults to the host's runtime.GOOS.
func WithPlatform(goos string) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetPlatform(goos)
	}
}

// WithMetricsRegistryProvider sets the metrics provider.
func WithMetricsRegistryProvider(provider metrics.RegistryProvider) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetMetricsRegistryProvider(provider)
	}
}

// WithTracerProvider sets the tracing provider.
func WithTracerProvider(provider tracing.TracerProvider) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetTracerProvider(provider)
	}
}

// WithRedactedKeywords sets the keywords whose argument values are masked
// in debug output.
func WithRedactedKeywords(keywords []string) LauncherOption {
	return func(l LauncherV1) error {
		return l.SetRedactedKeywords(keywords)
	}
}
