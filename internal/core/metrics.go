package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder receives service-level observations. The zero-dependency
// NoopMetrics implementation backs tests and embedded use.
type MetricsRecorder interface {
	ObserveMutation(op, outcome string, duration time.Duration)
	SetOutboxDepth(depth int)
}

// Mutation outcomes reported to the metrics recorder.
const (
	OutcomeOK            = "ok"
	OutcomeError         = "error"
	OutcomeBlocked       = "blocked"
	OutcomePersistFailed = "persist_failed"
)

// NoopMetrics discards all observations.
type NoopMetrics struct{}

// ObserveMutation implements MetricsRecorder.
func (NoopMetrics) ObserveMutation(string, string, time.Duration) {}

// SetOutboxDepth implements MetricsRecorder.
func (NoopMetrics) SetOutboxDepth(int) {}

// PrometheusMetrics records service observations into Prometheus collectors.
type PrometheusMetrics struct {
	mutations   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	outboxDepth prometheus.Gauge
}

// NewPrometheusMetrics builds and registers the campuscore collectors against
// the given registerer (prometheus.DefaultRegisterer when nil).
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campuscore",
			Name:      "mutations_total",
			Help:      "Gateway mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campuscore",
			Name:      "mutation_duration_seconds",
			Help:      "Gateway mutation latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		outboxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campuscore",
			Name:      "attendance_outbox_depth",
			Help:      "Attendance payloads buffered while offline.",
		}),
	}
	reg.MustRegister(m.mutations, m.duration, m.outboxDepth)
	return m
}

// ObserveMutation implements MetricsRecorder.
func (m *PrometheusMetrics) ObserveMutation(op, outcome string, duration time.Duration) {
	m.mutations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetOutboxDepth implements MetricsRecorder.
func (m *PrometheusMetrics) SetOutboxDepth(depth int) {
	m.outboxDepth.Set(float64(depth))
}
