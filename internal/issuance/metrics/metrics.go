package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for credential issuance.
type Metrics struct {
	CredentialsPrepared *prometheus.CounterVec
	CredentialsIssued   *prometheus.CounterVec
	SignatureNotReady   prometheus.Counter
	TicketsExpired      prometheus.Counter
	SignaturesCertified prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CredentialsPrepared: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vcissuer_credentials_prepared_total",
			Help: "Total number of prepared credentials by credential type",
		}, []string{"type"}),
		CredentialsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vcissuer_credentials_issued_total",
			Help: "Total number of issued credentials by credential type",
		}, []string{"type"}),
		SignatureNotReady: factory.NewCounter(prometheus.CounterOpts{
			Name: "vcissuer_signature_not_ready_total",
			Help: "Total number of get calls made before the credential signature was certified",
		}),
		TicketsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "vcissuer_tickets_expired_total",
			Help: "Total number of pending issuances that expired or were removed by cleanup",
		}),
		SignaturesCertified: factory.NewCounter(prometheus.CounterOpts{
			Name: "vcissuer_signatures_certified_total",
			Help: "Total number of signing inputs certified by certification rounds",
		}),
	}
}

func (m *Metrics) IncPrepared(credentialType string) {
	if m != nil {
		m.CredentialsPrepared.WithLabelValues(credentialType).Inc()
	}
}

func (m *Metrics) IncIssued(credentialType string) {
	if m != nil {
		m.CredentialsIssued.WithLabelValues(credentialType).Inc()
	}
}

func (m *Metrics) IncSignatureNotReady() {
	if m != nil {
		m.SignatureNotReady.Inc()
	}
}

func (m *Metrics) AddTicketsExpired(n int) {
	if m != nil && n > 0 {
		m.TicketsExpired.Add(float64(n))
	}
}

func (m *Metrics) AddSignaturesCertified(n int) {
	if m != nil && n > 0 {
		m.SignaturesCertified.Add(float64(n))
	}
}
