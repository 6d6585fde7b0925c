// Package tracer is a small tracing abstraction so issuance code can emit spans
// without importing OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests and deployments without a collector
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanIssuancePrepare,
//	    tracer.String(tracer.AttrCredentialType, "EarlyAdopter"),
//	)
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanIssuancePrepare = "issuance.prepare"
	SpanIssuanceGet     = "issuance.get"
	SpanCertifyRound    = "issuance.certify_round"
)

// Attribute keys.
const (
	AttrCredentialType = "credential_type"
	AttrClaimsHash     = "claims_hash"
	AttrReady          = "ready"
	AttrCertified      = "certified"
)

// Event names.
const (
	EventTicketSaved = "ticket.saved"
)
