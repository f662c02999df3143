package metrics

import (
	"strconv"
	"time"
)

// ObservePhase implements the pipeline Observer: one phase attempt with its
// duration and outcome.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	if err != nil {
		m.phaseFailures.WithLabelValues(phase).Inc()
	}
}

// ObserveRetry counts a scheduled retry of a phase.
func (m *Metrics) ObserveRetry(phase string) {
	m.retriesTotal.WithLabelValues(phase).Inc()
}

// ObserveOutcome counts a finished processing run.
func (m *Metrics) ObserveOutcome(outcome string) {
	m.runsTotal.WithLabelValues(outcome).Inc()
}

// IncrementRateLimited counts one request denied by the rate limiter.
func (m *Metrics) IncrementRateLimited() {
	m.rateLimited.Inc()
}

// RecordHTTPRequest counts one finished HTTP request and its duration.
func (m *Metrics) RecordHTTPRequest(route string, status int, start time.Time) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
