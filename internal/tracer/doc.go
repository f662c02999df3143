// Package tracer configures OpenTelemetry tracing for the materials
// service.
//
// Spans are exported over OTLP HTTP when export is enabled; otherwise the
// provider is a local no-op, which keeps instrumentation calls in place for
// development.
package tracer
