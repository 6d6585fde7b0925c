package metrics

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// countTimeout bounds the store query behind each scrape.
const countTimeout = 2 * time.Second

// Counter reports the number of registered subjects.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Metrics holds Prometheus metrics for subject registration.
type Metrics struct {
	EarlyAdopters prometheus.GaugeFunc
	Registrations *prometheus.CounterVec
}

// New registers the early_adopters gauge, evaluated against counter on every
// scrape, and the registration counter.
func New(reg prometheus.Registerer, counter Counter, logger *slog.Logger) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EarlyAdopters: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "early_adopters",
			Help: "Number of registered early adopters",
		}, func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
			defer cancel()
			n, err := counter.Count(ctx)
			if err != nil {
				logger.Error("failed to count early adopters", "error", err)
				return math.NaN()
			}
			return float64(n)
		}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vcissuer_registrations_total",
			Help: "Total number of register calls by outcome",
		}, []string{"outcome"}),
	}
}

// IncRegistration counts one register call. outcome is "new", "existing" or "rejected".
func (m *Metrics) IncRegistration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}
