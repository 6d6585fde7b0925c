package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcissuer/internal/platform/kafka/producer"
	audit "vcissuer/pkg/platform/audit"
	"vcissuer/pkg/platform/circuit"
)

type recordingProducer struct {
	msgs []*producer.Message
	err  error
}

func (p *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestSinkAppend(t *testing.T) {
	p := &recordingProducer{}
	sink := NewSink(p, "vcissuer.audit")

	err := sink.Append(context.Background(), audit.Event{
		Action:    string(audit.EventCredentialIssued),
		Subject:   "subject-1",
		RequestID: "req-9",
	})
	require.NoError(t, err)
	require.Len(t, p.msgs, 1)

	msg := p.msgs[0]
	assert.Equal(t, "vcissuer.audit", msg.Topic)
	assert.Equal(t, []byte("subject-1"), msg.Key)
	assert.Equal(t, "credential_issued", msg.Headers["action"])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "subject-1", decoded.Subject)
}

func TestSinkPropagatesProducerError(t *testing.T) {
	sink := NewSink(&recordingProducer{err: errors.New("broker unavailable")}, "t")
	assert.Error(t, sink.Append(context.Background(), audit.Event{Action: "a"}))
}

func TestSinkBreakerSkipsProducerWhileOpen(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &recordingProducer{err: errors.New("broker unavailable")}
	breaker := circuit.New("audit-kafka",
		circuit.WithFailureThreshold(2),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	sink := NewSink(p, "t", WithBreaker(breaker))
	ctx := context.Background()

	require.Error(t, sink.Append(ctx, audit.Event{Action: "a"}))
	require.Error(t, sink.Append(ctx, audit.Event{Action: "a"}))
	require.Equal(t, circuit.StateOpen, breaker.State())

	err := sink.Append(ctx, audit.Event{Action: "a"})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Len(t, p.msgs, 2, "open circuit must not reach the producer")

	p.err = nil
	now = now.Add(time.Minute)
	require.NoError(t, sink.Append(ctx, audit.Event{Action: "a"}))
	assert.Equal(t, circuit.StateClosed, breaker.State())
	assert.Len(t, p.msgs, 3)
}
