// Package metrics exposes Prometheus metrics for the materials service.
//
// It keeps an isolated registry wrapped with a constant service label and
// serves it on its own listener, separate from the API server. The package
// implements the pipeline's Observer so processing telemetry flows in
// without the pipeline importing Prometheus.
package metrics
