package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	AccessDecisions     *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	SessionsTerminated  *prometheus.CounterVec
	CollaboratorLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AccessDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zonegate_access_decisions_total",
			Help: "Access decisions by zone and outcome (granted or denial reason)",
		}, []string{"zone", "outcome"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "zonegate_active_sessions",
			Help: "Number of live zone sessions",
		}),
		SessionsTerminated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zonegate_sessions_terminated_total",
			Help: "Session terminations by reason",
		}, []string{"reason"}),
		CollaboratorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zonegate_collaborator_latency_seconds",
			Help:    "Latency of external collaborator calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"collaborator"}),
	}
}

// ObserveCollaborator records one collaborator call duration.
func (m *Metrics) ObserveCollaborator(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.CollaboratorLatency.WithLabelValues(name).Observe(d.Seconds())
}

// RecordDecision counts one access decision outcome.
func (m *Metrics) RecordDecision(zone, outcome string) {
	if m == nil {
		return
	}
	m.AccessDecisions.WithLabelValues(zone, outcome).Inc()
}

// RecordTermination counts one session termination.
func (m *Metrics) RecordTermination(reason string) {
	if m == nil {
		return
	}
	m.SessionsTerminated.WithLabelValues(reason).Inc()
	m.ActiveSessions.Dec()
}

// RecordSessionCreated bumps the live-session gauge.
func (m *Metrics) RecordSessionCreated() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}
