package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the charging operations the service performs. All methods
// are nil-safe so tests can run without a registry.
type Metrics struct {
	OperationsTotal *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargenet_operations_total",
			Help: "Charging operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chargenet_active_sessions",
			Help: "Charging sessions currently running.",
		}),
	}
}

func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil || m.OperationsTotal == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) SessionStarted() {
	if m == nil || m.ActiveSessions == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionEnded() {
	if m == nil || m.ActiveSessions == nil {
		return
	}
	m.ActiveSessions.Dec()
}
