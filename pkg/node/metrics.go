package node

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registry   *prometheus.Registry
	Requests   *prometheus.CounterVec   // Rank requests by transport and status
	Iterations prometheus.Histogram     // Sweeps needed to converge
	Duration   *prometheus.HistogramVec // Request latency by transport
	Pages      prometheus.Gauge         // Pages in the last ranked graph
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerank_requests_total",
				Help: "Total number of rank requests processed",
			},
			[]string{"transport", "status"},
		),
		Iterations: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pagerank_iterations",
				Help:    "Number of power iterations per computation",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagerank_request_duration_seconds",
				Help:    "Duration of rank requests in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"transport"},
		),
		Pages: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pagerank_pages",
				Help: "Number of pages of the last ranked graph",
			},
		),
	}
}

// No-op on a nil receiver, so nodes can run without metrics
func (m *Metrics) observe(transport, status string, pages, iterations int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(transport, status).Inc()
	m.Duration.WithLabelValues(transport).Observe(elapsed.Seconds())
	if status == "ok" {
		m.Iterations.Observe(float64(iterations))
		m.Pages.Set(float64(pages))
	}
}
