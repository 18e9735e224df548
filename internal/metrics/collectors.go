package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds the launcher's own metrics.
type Collectors struct {
	passes           prometheus.Counter
	restarts         prometheus.Counter
	templateFailures *prometheus.CounterVec
	spawnFailures    prometheus.Counter
	childExitCode    prometheus.Gauge
	childDuration    prometheus.Histogram
}

// NewCollectors creates the launcher metrics and registers them with reg.
// Metrics that are already registered are reused, so several launchers may
// share a registry.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launcher_passes_total",
			Help: "Total number of launch passes started.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launcher_restarts_total",
			Help: "Total number of restarts requested by the child through the restart exit code.",
		}),
		templateFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launcher_template_failures_total",
			Help: "Total number of configuration values whose placeholders could not be resolved, by failure kind.",
		}, []string{"kind"}),
		spawnFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launcher_spawn_failures_total",
			Help: "Total number of child processes that could not be started.",
		}),
		childExitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "launcher_child_exit_code",
			Help: "Exit code reported for the most recent child process.",
		}),
		childDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "launcher_child_run_duration_seconds",
			Help:    "Wall clock duration of child process runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
	}

	if reg == nil {
		return c, nil
	}
	var err error
	if c.passes, err = register(reg, c.passes); err != nil {
		return nil, err
	}
	if c.restarts, err = register(reg, c.restarts); err != nil {
		return nil, err
	}
	if c.templateFailures, err = register(reg, c.templateFailures); err != nil {
		return nil, err
	}
	if c.spawnFailures, err = register(reg, c.spawnFailures); err != nil {
		return nil, err
	}
	if c.childExitCode, err = register(reg, c.childExitCode); err != nil {
		return nil, err
	}
	if c.childDuration, err = register(reg, c.childDuration); err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

// PassStarted counts a new launch pass.
func (c *Collectors) PassStarted() {
	c.passes.Inc()
}

// RestartRequested counts a restart transition.
func (c *Collectors) RestartRequested() {
	c.restarts.Inc()
}

// TemplateFailed counts a failed resolution of the given kind.
func (c *Collectors) TemplateFailed(kind string) {
	c.templateFailures.WithLabelValues(kind).Inc()
}

// SpawnFailed counts a child that could not be started.
func (c *Collectors) SpawnFailed() {
	c.spawnFailures.Inc()
}

// ChildExited records the outcome of a child run.
func (c *Collectors) ChildExited(code int, elapsed time.Duration) {
	c.childExitCode.Set(float64(code))
	c.childDuration.Observe(elapsed.Seconds())
}
