package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus registry, the scrape server and the
// service's metric vectors.
type Metrics struct {
	// Server exposes /metrics for Prometheus scraping.
	Server *http.Server

	// Registry is isolated per process to avoid metric name collisions.
	Registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	phaseFailures *prometheus.CounterVec
	retriesTotal  *prometheus.CounterVec
	rateLimited   prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewMetrics builds the registry, registers the service's metric vectors
// and prepares the scrape server. All metrics carry a constant
// service="<cfg.ServiceName>" label.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{Registry: registry}

	m.runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "material_runs_total",
		Help: "Finished processing runs by outcome (completed, failed, skipped)",
	}, []string{"outcome"})

	m.phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "material_phase_duration_seconds",
		Help:    "Duration of one processing phase attempt",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	m.phaseFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "material_phase_failures_total",
		Help: "Failed phase attempts by phase",
	}, []string{"phase"})

	m.retriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "material_retries_total",
		Help: "Scheduled phase retries by phase",
	}, []string{"phase"})

	m.rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "requests_rate_limited_total",
		Help: "Requests denied by the rate limiter",
	})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	wrapped.MustRegister(
		m.runsTotal,
		m.phaseDuration,
		m.phaseFailures,
		m.retriesTotal,
		m.rateLimited,
		m.httpRequests,
		m.httpDuration,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	return m
}
