package request

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds HTTP-level collectors. Routes are chi patterns, so label
// cardinality is bounded by the route table.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
	InFlight        prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vcissuer_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"endpoint"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vcissuer_http_requests_total",
			Help: "HTTP requests by endpoint, method and status class",
		}, []string{"endpoint", "method", "status"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "vcissuer_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

func (m *Metrics) observe(endpoint, method string, status int, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
	m.Requests.WithLabelValues(endpoint, method, statusClass(status)).Inc()
}

// statusClass folds a status code to "2xx", "4xx" and so on.
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
