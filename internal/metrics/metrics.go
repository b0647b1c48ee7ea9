// Package metrics exposes Prometheus collectors for the intake service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis kinds
const (
	KindDocument = "document"
	KindID       = "id"
)

// Analysis outcomes
const (
	OutcomeParsed   = "parsed"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Metrics provides observability for document analysis and submissions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Analysis results by kind and outcome
	AnalysisTotal *prometheus.CounterVec

	// Time spent in upload plus generation
	AnalysisDuration *prometheus.HistogramVec

	// Forwarded submissions by outcome
	SubmissionsTotal *prometheus.CounterVec

	// Provider file deletions that failed
	CleanupFailures prometheus.Counter

	// Requests rejected by the rate limiter
	RateLimited *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		AnalysisTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_analysis_total",
			Help: "Document analysis requests by kind and outcome",
		}, []string{"kind", "outcome"}),

		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intake_analysis_duration_seconds",
			Help:    "Duration of document analysis including upload",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"kind"}),

		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Forwarded submissions by outcome",
		}, []string{"outcome"}),

		CleanupFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_cleanup_failures_total",
			Help: "Uploaded analysis files that could not be deleted",
		}),

		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_rate_limited_total",
			Help: "Requests rejected by the rate limiter by path",
		}, []string{"path"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveAnalysis records one analysis with its outcome and duration.
func (m *Metrics) ObserveAnalysis(kind, outcome string, d time.Duration) {
	if m != nil {
		m.AnalysisTotal.WithLabelValues(kind, outcome).Inc()
		m.AnalysisDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// IncrementSubmission records a forwarded submission.
func (m *Metrics) IncrementSubmission(outcome string) {
	if m != nil {
		m.SubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// IncrementCleanupFailure records a failed provider file deletion.
func (m *Metrics) IncrementCleanupFailure() {
	if m != nil {
		m.CleanupFailures.Inc()
	}
}

// IncrementRateLimited records a throttled request.
func (m *Metrics) IncrementRateLimited(path string) {
	if m != nil {
		m.RateLimited.WithLabelValues(path).Inc()
	}
}
