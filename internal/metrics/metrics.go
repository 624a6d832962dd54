// Package metrics provides Prometheus metrics for edit processing
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for mapedit. They live on a private
// registry that is written to a textfile after a run.
type Metrics struct {
	registry *prometheus.Registry

	EditsApplied  *prometheus.CounterVec
	Conflicts     *prometheus.CounterVec
	ApplyDuration prometheus.Histogram
	PendingEdits  prometheus.Gauge
}

// NewMetrics creates and registers all metrics on a new registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EditsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mapedit_edits_applied_total",
				Help: "Total number of processed edits by action type and result",
			},
			[]string{"action", "result"},
		),
		Conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mapedit_conflicts_total",
				Help: "Total number of edit conflicts by kind",
			},
			[]string{"kind"},
		),
		ApplyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mapedit_apply_duration_seconds",
				Help:    "Duration of applying a single edit in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		PendingEdits: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mapedit_pending_edits",
				Help: "Number of edits still pending after the last apply",
			},
		),
	}
}

// RecordEdit records a processed edit
func (m *Metrics) RecordEdit(action, result string, duration time.Duration) {
	m.EditsApplied.WithLabelValues(action, result).Inc()
	m.ApplyDuration.Observe(duration.Seconds())
}

// RecordConflict records a conflict of the given kind
func (m *Metrics) RecordConflict(kind string) {
	m.Conflicts.WithLabelValues(kind).Inc()
}

// Registry returns the registry holding the metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics in the text exposition format
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
