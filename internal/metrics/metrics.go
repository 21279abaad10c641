// Package metrics exposes Prometheus instrumentation for the classification
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decision paths recorded on the classifications counter.
const (
	PathRule     = "rule"
	PathAI       = "ai"
	PathFallback = "fallback"
	PathCache    = "cache"
)

// Metrics holds the pipeline's Prometheus collectors registered against a
// private registry.
type Metrics struct {
	registry *prometheus.Registry

	classifications *prometheus.CounterVec
	duration        prometheus.Histogram
	fallbacks       prometheus.Counter
	challenges      prometheus.Counter
}

// New creates and registers the pipeline collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ebt",
				Name:      "classifications_total",
				Help:      "Classification decisions by outcome and decision path",
			},
			[]string{"outcome", "path"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ebt",
				Name:      "classification_duration_seconds",
				Help:      "End-to-end classification latency",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60},
			},
		),
		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ebt",
				Name:      "reasoning_fallbacks_total",
				Help:      "Reasoning sessions that produced the fail-open fallback verdict",
			},
		),
		challenges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ebt",
				Name:      "challenges_total",
				Help:      "Processed classification challenges",
			},
		),
	}

	registry.MustRegister(m.classifications, m.duration, m.fallbacks, m.challenges)
	return m
}

// RecordClassification counts one decision and its latency.
func (m *Metrics) RecordClassification(eligible bool, path string, seconds float64) {
	outcome := "ineligible"
	if eligible {
		outcome = "eligible"
	}

	m.classifications.WithLabelValues(outcome, path).Inc()

	if path != PathCache {
		m.duration.Observe(seconds)
	}
}

// RecordFallback counts a fail-open reasoning fallback.
func (m *Metrics) RecordFallback() {
	m.fallbacks.Inc()
}

// RecordChallenge counts a processed challenge.
func (m *Metrics) RecordChallenge() {
	m.challenges.Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
