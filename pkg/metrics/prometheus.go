package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"Cassandra/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	assessments *prometheus.CounterVec
	probability *prometheus.GaugeVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		assessments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cassandra_assessments_total",
				Help: "Total number of completed risk assessments",
			},
			[]string{"source", "tier"},
		),
		probability: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cassandra_crash_probability",
				Help: "Last predicted crash probability per source",
			},
			[]string{"source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cassandra_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cassandra_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAssessment records one completed assessment.
func (r *Recorder) RecordAssessment(source string, tier models.RiskTier) {
	r.assessments.WithLabelValues(source, string(tier)).Inc()
}

// RecordProbability records the latest crash probability for a source.
func (r *Recorder) RecordProbability(source string, p float64) {
	r.probability.WithLabelValues(source).Set(p)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
