// Package launch runs the launcher pipeline: resolve the resources path,
// load the configuration, resolve the support path and templated values,
// assemble the child command line, run the child and map its exit code.
// Passes repeat while the child asks for a restart.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/gxo-labs/launcher/internal/args"
	"github.com/gxo-labs/launcher/internal/config"
	intmetrics "github.com/gxo-labs/launcher/internal/metrics"
	"github.com/gxo-labs/launcher/internal/paths"
	"github.com/gxo-labs/launcher/internal/process"
	"github.com/gxo-labs/launcher/internal/template"
	inttracing "github.com/gxo-labs/launcher/internal/tracing"
	launcher "github.com/gxo-labs/launcher/pkg/launcher/v1"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	launchlog "github.com/gxo-labs/launcher/pkg/launcher/v1/log"
	"github.com/gxo-labs/launcher/pkg/launcher/v1/metrics"
	"github.com/gxo-labs/launcher/pkg/launcher/v1/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultApplicationName names the support directory when neither the
// configuration nor an option sets one.
const DefaultApplicationName = "Defold"

// state is a position in the restart loop.
type state int

const (
	stateRunning state = iota
	stateDone
)

func (s state) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// next returns the state following a pass that ended with code.
func next(code int) state {
	if code == launcher.ExitRestart {
		return stateRunning
	}
	return stateDone
}

// Launcher implements launcher.LauncherV1.
type Launcher struct {
	log  launchlog.Logger
	argv []string
	goos string

	runner      process.Runner
	resolver    paths.Resolver
	loader      config.Loader
	configFile  string
	application string

	metricsProvider metrics.RegistryProvider
	tracerProvider  tracing.TracerProvider
	collectors      *intmetrics.Collectors

	redactedKeywords map[string]struct{}
	passes           int
}

var _ launcher.LauncherV1 = (*Launcher)(nil)

// NewLauncher creates a Launcher for the process arguments argv, where
// argv[0] is the launcher's own path and the remaining arguments may carry
// configuration overrides.
func NewLauncher(log launchlog.Logger, argv []string, opts ...launcher.LauncherOption) (*Launcher, error) {
	if log == nil {
		return nil, launcherrors.NewConfigError("logger cannot be nil", nil)
	}

	l := &Launcher{
		log:              log,
		argv:             argv,
		goos:             runtime.GOOS,
		application:      DefaultApplicationName,
		redactedKeywords: args.KeywordSet(args.DefaultRedactedKeywords),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, launcherrors.NewConfigError(fmt.Sprintf("failed to apply launcher option: %v", err), err)
		}
	}

	if l.runner == nil {
		l.runner = process.NewRunner()
	}
	if l.resolver == nil {
		l.resolver = paths.NewResolver()
	}
	if l.loader == nil {
		l.loader = config.NewFileLoader()
	}
	if l.tracerProvider == nil {
		l.tracerProvider = inttracing.NewNoOpProvider()
	}
	if l.metricsProvider == nil {
		l.metricsProvider = intmetrics.NewPrometheusRegistryProvider()
	}
	if l.collectors == nil {
		if err := l.initMetrics(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Launcher) initMetrics() error {
	collectors, err := intmetrics.NewCollectors(l.metricsProvider.Registry())
	if err != nil {
		return launcherrors.NewConfigError("failed to register launcher metrics", err)
	}
	l.collectors = collectors
	return nil
}

// Run executes passes until one ends with a code other than
// launcher.ExitRestart and returns that code.
func (l *Launcher) Run(ctx context.Context) int {
	code := 0
	for st := stateRunning; st == stateRunning; {
		code = l.RunOnce(ctx)
		st = next(code)
		l.log.Debugf("Pass %d ended with code %d, next state: %s", l.passes, code, st)
		if st == stateRunning {
			l.collectors.RestartRequested()
			l.log.Infof("Child exited with restart code %d, relaunching", code)
		}
	}
	return code
}

// RunOnce executes a single pass and returns its exit code.
func (l *Launcher) RunOnce(ctx context.Context) int {
	l.passes++
	l.collectors.PassStarted()
	log := l.log.With("pass", l.passes)

	ctx, span := l.tracerProvider.GetTracer(inttracing.TracerName).Start(ctx, "launcher.pass",
		trace.WithAttributes(attribute.Int("launcher.pass", l.passes)))
	defer span.End()

	var metricsFile string
	defer func() {
		if err := intmetrics.WriteTextfile(l.metricsProvider, metricsFile); err != nil {
			log.WarnfCtx(ctx, "%v", err)
		}
	}()

	resourcesPath, err := l.resolver.ResourcesPath(l.argv)
	if err != nil {
		return l.configFailure(ctx, span, log, "Failed to locate resources path: %v", err)
	}

	configFile := l.configFile
	if configFile == "" {
		configFile = paths.ConfigPath(resourcesPath)
	}
	var overrides []string
	if len(l.argv) > 1 {
		overrides = l.argv[1:]
	}
	cfg, err := l.loader.Load(configFile, overrides)
	if err != nil {
		return l.configFailure(ctx, span, log, "Failed to load config file '%s': %v", configFile, err)
	}
	defer cfg.Release()
	metricsFile = cfg.GetString(config.KeyMetricsFile, "")

	if cfg.GetInt(config.KeyDebug, 0) != 0 {
		l.log.SetLevel(slog.LevelDebug)
	}

	application := cfg.GetString(config.KeyApplication, "")
	if application == "" {
		application = l.application
	}
	supportPath, err := l.resolver.SupportPath(application)
	if err != nil {
		return l.configFailure(ctx, span, log, "Failed to locate support path: %v", err)
	}

	rc := template.NewReplaceContext(cfg,
		orDefault(cfg.GetString(config.KeyResourcesPath, ""), resourcesPath),
		orDefault(cfg.GetString(config.KeySupportPath, ""), supportPath))
	log.DebugfCtx(ctx, "Resources path: %s", rc.ResourcesPath)
	log.DebugfCtx(ctx, "Support path: %s", rc.SupportPath)

	spec := args.Spec{
		Interpreter: l.resolve(ctx, log, rc, config.KeyJava),
		Classpath:   l.resolve(ctx, log, rc, config.KeyJar),
		EntryPoint:  cfg.GetString(config.KeyMain, config.DefaultMain),
		VMArgs:      l.resolve(ctx, log, rc, config.KeyVMArgs),
	}
	if key := args.PlatformKey(l.goos); key != "" {
		spec.PlatformArgs = l.resolve(ctx, log, rc, key)
	}

	policy, err := args.ParseEmptyTokenPolicy(cfg.GetString(config.KeyEmptyArgs, ""))
	if err != nil {
		log.WarnfCtx(ctx, "%v, using '%s'", err, policy)
	}
	argv, err := args.NewBuilder(policy).Build(spec)
	if err != nil {
		log.FatalfCtx(ctx, "Failed to build child command line: %v", err)
		l.collectors.SpawnFailed()
		inttracing.RecordError(span, err, l.redactedKeywords)
		return launcher.ExitSpawnFailure
	}

	return l.runChild(ctx, log, argv)
}

// runChild spawns the child described by argv and waits for it.
func (l *Launcher) runChild(ctx context.Context, log launchlog.Logger, argv *args.Vector) int {
	ctx, span := l.tracerProvider.GetTracer(inttracing.TracerName).Start(ctx, "launcher.child",
		trace.WithAttributes(inttracing.ArgvAttribute(argv.Args(), l.redactedKeywords)))
	defer span.End()

	if log.IsEnabled(slog.LevelDebug) {
		for i, arg := range args.Redact(argv.Args(), l.redactedKeywords) {
			log.DebugfCtx(ctx, "arg %d: %s", i, arg)
		}
	}

	start := time.Now()
	code, err := l.runner.Run(ctx, argv)
	elapsed := time.Since(start)
	if err != nil {
		log.FatalfCtx(ctx, "Failed to launch '%s': %v", argv.Path(), err)
		l.collectors.SpawnFailed()
		inttracing.RecordError(span, err, l.redactedKeywords)
		if code == 0 {
			code = launcher.ExitSpawnFailure
		}
	}

	span.SetAttributes(attribute.Int("launcher.child.exit_code", code))
	l.collectors.ChildExited(code, elapsed)
	log.DebugfCtx(ctx, "Child '%s' exited with code %d after %s", argv.Path(), code, elapsed)
	return code
}

// resolve returns the templated value of key. A resolution failure is
// logged at fatal severity and yields the empty string; the pass goes on.
func (l *Launcher) resolve(ctx context.Context, log launchlog.Logger, rc template.ReplaceContext, key string) string {
	value, err := template.ResolveKey(rc, key, template.MaxValueSize)
	if err != nil {
		var tErr *launcherrors.TemplateError
		if errors.As(err, &tErr) {
			l.collectors.TemplateFailed(tErr.Kind.String())
		}
		log.FatalfCtx(ctx, "Failed to resolve '%s': %v", key, err)
		trace.SpanFromContext(ctx).AddEvent("template failure", trace.WithAttributes(attribute.String("launcher.key", key)))
		return ""
	}
	return value
}

func (l *Launcher) configFailure(ctx context.Context, span trace.Span, log launchlog.Logger, format string, a ...interface{}) int {
	log.FatalfCtx(ctx, format, a...)
	if len(a) > 0 {
		if err, ok := a[len(a)-1].(error); ok {
			inttracing.RecordError(span, err, l.redactedKeywords)
		}
	}
	return launcher.ExitConfigFailure
}

// orDefault returns value, or def when value is empty.
func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// Passes returns how many passes have been started.
func (l *Launcher) Passes() int {
	return l.passes
}

func (l *Launcher) MetricsRegistryProvider() metrics.RegistryProvider {
	return l.metricsProvider
}

func (l *Launcher) TracerProvider() tracing.TracerProvider {
	return l.tracerProvider
}

func (l *Launcher) SetRunner(runner process.Runner) error {
	if runner == nil {
		return launcherrors.NewConfigError("process runner cannot be nil", nil)
	}
	l.runner = runner
	return nil
}

func (l *Launcher) SetPathResolver(resolver paths.Resolver) error {
	if resolver == nil {
		return launcherrors.NewConfigError("path resolver cannot be nil", nil)
	}
	l.resolver = resolver
	return nil
}

func (l *Launcher) SetConfigLoader(loader config.Loader) error {
	if loader == nil {
		return launcherrors.NewConfigError("config loader cannot be nil", nil)
	}
	l.loader = loader
	return nil
}

// SetConfigFile overrides the default "<resources>/config" location. An
// empty path restores the default.
func (l *Launcher) SetConfigFile(path string) error {
	l.configFile = path
	return nil
}

func (l *Launcher) SetApplicationName(name string) error {
	if name == "" {
		return launcherrors.NewConfigError("application name cannot be empty", nil)
	}
	l.application = name
	return nil
}

func (l *Launcher) SetPlatform(goos string) error {
	if goos == "" {
		return launcherrors.NewConfigError("platform cannot be empty", nil)
	}
	l.goos = goos
	return nil
}

func (l *Launcher) SetMetricsRegistryProvider(provider metrics.RegistryProvider) error {
	if provider == nil {
		return launcherrors.NewConfigError("metrics registry provider cannot be nil", nil)
	}
	l.metricsProvider = provider
	return l.initMetrics()
}

func (l *Launcher) SetTracerProvider(provider tracing.TracerProvider) error {
	if provider == nil {
		return launcherrors.NewConfigError("tracer provider cannot be nil", nil)
	}
	l.tracerProvider = provider
	return nil
}

func (l *Launcher) SetRedactedKeywords(keywords []string) error {
	l.redactedKeywords = args.KeywordSet(keywords)
	return nil
}
