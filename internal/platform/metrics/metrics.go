// Package metrics holds the HTTP transport metrics shared by all handlers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the HTTP transport.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers all transport metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chargenet_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status class",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),

		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargenet_http_requests_total",
			Help: "Total HTTP requests by route and status class",
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
		m.RequestsTotal.WithLabelValues(route, status).Inc()
	}
}
