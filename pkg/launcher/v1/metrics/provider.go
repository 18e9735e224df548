package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryProvider defines the interface for accessing the launcher's metrics registry.
type RegistryProvider interface {
	// Registry returns the Prometheus registry holding launcher metrics.
	Registry() *prometheus.Registry
}
