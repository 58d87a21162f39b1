package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the declaration module.
type Metrics struct {
	// Declarations created or updated, labeled by resulting status
	Saved *prometheus.CounterVec

	// Submissions rejected because a SUBMITTED declaration already exists
	SubmissionConflicts prometheus.Counter

	// Tax computation latency
	ComputeLatency prometheus.Histogram
}

// New creates a new Metrics instance with all declaration module metrics registered.
func New() *Metrics {
	return &Metrics{
		Saved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taxfill_declarations_saved_total",
			Help: "Total declarations persisted by operation and resulting status",
		}, []string{"operation", "status"}), // operation: "create", "update"

		SubmissionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taxfill_declaration_submission_conflicts_total",
			Help: "Submissions rejected because the year already has a submitted declaration",
		}),

		ComputeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxfill_declaration_tax_compute_duration_seconds",
			Help:    "Duration of progressive tax computation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}
}

// IncrementSaved records a persisted declaration.
func (m *Metrics) IncrementSaved(operation, status string) {
	if m != nil {
		m.Saved.WithLabelValues(operation, status).Inc()
	}
}

// IncrementSubmissionConflict records a rejected duplicate submission.
func (m *Metrics) IncrementSubmissionConflict() {
	if m != nil {
		m.SubmissionConflicts.Inc()
	}
}

// ObserveComputeLatency records the duration of a tax computation.
func (m *Metrics) ObserveComputeLatency(d time.Duration) {
	if m != nil {
		m.ComputeLatency.Observe(d.Seconds())
	}
}
