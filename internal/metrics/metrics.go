// Package metrics provides Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Import metrics
	ImportRowsTotal       *prometheus.CounterVec
	ImportBatchesTotal    *prometheus.CounterVec
	ImportDurationSeconds *prometheus.HistogramVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Auth metrics
	AuthFailuresTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ImportRowsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "flithub_import_rows_total",
				Help: "Total number of import rows processed by pipeline and outcome",
			},
			[]string{"pipeline", "outcome"}, // outcome: inserted, updated, skipped, error
		),

		ImportBatchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "flithub_import_batches_total",
				Help: "Total number of import batches by pipeline and mode",
			},
			[]string{"pipeline", "mode"},
		),

		ImportDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flithub_import_duration_seconds",
				Help:    "Import batch duration in seconds by pipeline",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"pipeline"},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "flithub_http_errors_total",
				Help: "Total number of HTTP error responses by path and status",
			},
			[]string{"path", "status"},
		),

		AuthFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "flithub_auth_failures_total",
				Help: "Total number of rejected requests by reason",
			},
			[]string{"reason"}, // reason: missing_token, invalid_token, not_admin
		),
	}

	return m
}

// RecordImportRow increments the import row counter for one outcome
func (m *Metrics) RecordImportRow(pipeline, outcome string) {
	m.ImportRowsTotal.WithLabelValues(pipeline, outcome).Inc()
}

// RecordImportBatch increments the batch counter and observes its duration
func (m *Metrics) RecordImportBatch(pipeline, mode string, seconds float64) {
	m.ImportBatchesTotal.WithLabelValues(pipeline, mode).Inc()
	m.ImportDurationSeconds.WithLabelValues(pipeline).Observe(seconds)
}

// RecordHTTPError increments the HTTP error counter
func (m *Metrics) RecordHTTPError(path, status string) {
	m.HTTPErrorsTotal.WithLabelValues(path, status).Inc()
}

// RecordAuthFailure increments the auth failure counter
func (m *Metrics) RecordAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}
