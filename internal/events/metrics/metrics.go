// Package metrics provides observability for event fan-out.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts sink deliveries and failures per event and sink.
type Metrics struct {
	Delivered       *prometheus.CounterVec
	DeliveryFailed  *prometheus.CounterVec
	DeliveryLatency *prometheus.HistogramVec
}

// New creates and registers all event fan-out metrics.
func New() *Metrics {
	return &Metrics{
		Delivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargenet_event_deliveries_total",
			Help: "Successful sink deliveries by event and sink",
		}, []string{"event", "sink"}),

		DeliveryFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargenet_event_delivery_failures_total",
			Help: "Failed sink deliveries by event, sink and reason",
		}, []string{"event", "sink", "reason"}),

		DeliveryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chargenet_event_delivery_duration_seconds",
			Help:    "Duration of sink deliveries by sink",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"sink"}),
	}
}

// ObserveDelivery records one successful delivery.
func (m *Metrics) ObserveDelivery(event, sink string, d time.Duration) {
	if m != nil {
		m.Delivered.WithLabelValues(event, sink).Inc()
		m.DeliveryLatency.WithLabelValues(sink).Observe(d.Seconds())
	}
}

// ObserveFailure records one failed delivery.
func (m *Metrics) ObserveFailure(event, sink, reason string) {
	if m != nil {
		m.DeliveryFailed.WithLabelValues(event, sink, reason).Inc()
	}
}
