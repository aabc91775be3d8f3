package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
)

// newPrometheusReader creates an OTel metric reader backed by a private
// Prometheus registry. Each call creates an independent registry to avoid
// collector conflicts when called multiple times.
func newPrometheusReader() (*promexporter.Exporter, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return exporter, registry, nil
}

// WriteTextfile gathers registry and writes it to path in the Prometheus
// text exposition format, for node_exporter's textfile collector.
func WriteTextfile(registry *prometheus.Registry, path string) error {
	if registry == nil {
		return ErrNoRegistry
	}

	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
