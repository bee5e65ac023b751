// Package metrics provides Prometheus metrics for the prove module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all attestation pipeline metrics.
//
// Rejection reasons are labeled with the internal error code, never exposed
// on the wire; this is where operators see what clients cannot.
type Metrics struct {
	RequestsTotal  prometheus.Counter     // All attestation requests received
	AcceptedTotal  prometheus.Counter     // Requests that produced an attestation
	RejectedTotal  *prometheus.CounterVec // Rejections by internal reason code
	StageDurations *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attestor_requests_total",
			Help: "Total number of attestation requests received",
		}),

		AcceptedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attestor_accepted_total",
			Help: "Total number of requests that produced a signed attestation",
		}),

		RejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attestor_rejected_total",
			Help: "Total number of rejected requests by internal reason code",
		}, []string{"reason"}),

		StageDurations: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attestor_stage_duration_seconds",
			Help:    "Duration of attestation pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),
	}
}

// RecordRequest counts an incoming request. Safe on a nil receiver so wiring
// metrics stays optional.
func (m *Metrics) RecordRequest() {
	if m == nil {
		return
	}
	m.RequestsTotal.Inc()
}

// RecordAccepted counts a successful attestation.
func (m *Metrics) RecordAccepted() {
	if m == nil {
		return
	}
	m.AcceptedTotal.Inc()
}

// RecordRejected counts a rejection under its internal reason code.
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(reason).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDurations.WithLabelValues(stage).Observe(seconds)
}
