package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OpMetrics records the outcome of the dashboard's long-running operations:
// CSV ingestion, wire submission, and status polling.
type OpMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// Operation labels used across the service.
const (
	OpIngest = "ingest"
	OpSubmit = "submit"
	OpPoll   = "poll"
)

// NewOpMetrics registers the operation metrics on the provided registerer.
func NewOpMetrics(reg prometheus.Registerer) *OpMetrics {
	if reg == nil {
		return &OpMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "op_duration_seconds",
		Help:    "Duration of dashboard operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "op_success",
		Help: "Successful operation executions.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "op_failure",
		Help: "Failed operation executions.",
	}, []string{"op"})
	reg.MustRegister(duration, success, failure)
	return &OpMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *OpMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *OpMetrics) IncSuccess(op string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *OpMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
