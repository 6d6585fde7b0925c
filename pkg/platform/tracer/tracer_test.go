package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/tracer"
	"vcissuer/pkg/requestcontext"
)

func TestNoopTracer(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanIssuancePrepare, tracer.String(tracer.AttrCredentialType, "EarlyAdopter"))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool(tracer.AttrReady, false))
	span.AddEvent(tracer.EventTicketSaved)
	span.End(errors.New("boom"))
}

func TestOTelTracerWithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), tracer.SpanIssuanceGet,
		tracer.String(tracer.AttrClaimsHash, "ab12"),
		tracer.Int64("count", 2),
		tracer.Float64("ratio", 0.5),
		tracer.Attribute{Key: "ignored", Value: struct{}{}},
	)
	require.NotNil(t, ctx)
	span.SetAttributes(tracer.Bool(tracer.AttrReady, true))
	span.End(nil)
}

func TestAttributeConstructors(t *testing.T) {
	assert.Equal(t, tracer.Attribute{Key: "k", Value: "v"}, tracer.String("k", "v"))
	assert.Equal(t, true, tracer.Bool("flag", true).Value)
	assert.Equal(t, int64(42), tracer.Int64("count", 42).Value)
	assert.Equal(t, int64(150), tracer.Duration("latency", 150*time.Millisecond).Value)
}

func TestOTelSpanErrorClassification(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := tracer.NewOTel(tracer.WithOTelTracer(provider.Tracer("test")))
	ctx := requestcontext.WithRequestID(context.Background(), "req-42")

	_, rejected := tr.Start(ctx, tracer.SpanIssuancePrepare)
	rejected.End(dErrors.New(dErrors.CodeInvalidIdAlias, "id alias could not be verified"))

	_, failed := tr.Start(ctx, tracer.SpanIssuanceGet)
	failed.End(errors.New("redis: connection refused"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "request.rejected", spans[0].Events()[0].Name)
	assert.Contains(t, spans[0].Events()[0].Attributes, attribute.String("error.code", "invalid_id_alias"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("request.id", "req-42"))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "redis: connection refused", spans[1].Status().Description)
}
