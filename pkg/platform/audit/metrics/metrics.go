// Package metrics instruments the audit publisher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels what happened to one audit event.
type Outcome string

const (
	Enqueued  Outcome = "enqueued"
	Dropped   Outcome = "dropped"
	Persisted Outcome = "persisted"
	Failed    Outcome = "failed"
	Rejected  Outcome = "rejected"
)

type Metrics struct {
	QueueDepth prometheus.Gauge
	Events     *prometheus.CounterVec
	Persist    prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vcissuer_audit_queue_depth",
			Help: "Audit events waiting to be persisted",
		}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vcissuer_audit_events_total",
			Help: "Audit events by outcome",
		}, []string{"outcome"}),
		Persist: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vcissuer_audit_persist_seconds",
			Help:    "Time spent appending one audit event to its sinks",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),
	}
}

// Observe counts one event under o. Nil receivers are ignored.
func (m *Metrics) Observe(o Outcome) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(string(o)).Inc()
}

// Queued moves the queue depth gauge by delta.
func (m *Metrics) Queued(delta float64) {
	if m == nil {
		return
	}
	m.QueueDepth.Add(delta)
}

func (m *Metrics) ObservePersist(seconds float64) {
	if m == nil {
		return
	}
	m.Persist.Observe(seconds)
}
