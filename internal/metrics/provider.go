package metrics

import (
	"fmt"

	launchmetrics "github.com/gxo-labs/launcher/pkg/launcher/v1/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRegistryProvider implements the RegistryProvider interface
// using a standard Prometheus registry.
type PrometheusRegistryProvider struct {
	registry *prometheus.Registry
}

// NewPrometheusRegistryProvider creates a new metrics provider backed by Prometheus.
func NewPrometheusRegistryProvider() *PrometheusRegistryProvider {
	return &PrometheusRegistryProvider{
		registry: prometheus.NewRegistry(),
	}
}

// Registry returns the underlying Prometheus registry.
func (p *PrometheusRegistryProvider) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes every metric gathered from the provider's registry
// to path in the text exposition format, for pickup by a node exporter
// textfile collector. The file is replaced atomically.
func WriteTextfile(provider launchmetrics.RegistryProvider, path string) error {
	if provider == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, provider.Registry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile '%s': %w", path, err)
	}
	return nil
}

var _ launchmetrics.RegistryProvider = (*PrometheusRegistryProvider)(nil)
