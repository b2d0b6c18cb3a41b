// Package metrics exposes Prometheus collectors for form traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for submissions.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics groups the collectors. Each instance owns its registry so tests
// and multiple servers do not clash on registration.
type Metrics struct {
	registry        *prometheus.Registry
	submissions     *prometheus.CounterVec
	fieldErrors     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signupform_submissions_total",
				Help: "Form submissions by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		fieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signupform_field_errors_total",
				Help: "Validation errors reported per field",
			},
			[]string{"field"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signupform_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
	}
	m.registry.MustRegister(m.submissions, m.fieldErrors, m.requestDuration)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSubmission records one submit attempt and, when rejected, the
// failing fields.
func (m *Metrics) ObserveSubmission(channel, outcome string, errors map[string]string) {
	m.submissions.WithLabelValues(channel, outcome).Inc()
	for field := range errors {
		m.fieldErrors.WithLabelValues(field).Inc()
	}
}

// ObserveRequest records the duration of an HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}
