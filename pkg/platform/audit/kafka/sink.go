// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"vcissuer/internal/platform/kafka/producer"
	audit "vcissuer/pkg/platform/audit"
	"vcissuer/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the breaker is holding events back.
var ErrCircuitOpen = errors.New("audit stream circuit open")

// Producer is the subset of producer.Producer the sink needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Sink is an audit.Store that writes JSON events keyed by subject.
type Sink struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type SinkOption func(*Sink)

// WithBreaker stops producing after repeated broker failures, so a dead
// broker does not hold every audit write for the full delivery timeout.
func WithBreaker(b *circuit.Breaker) SinkOption {
	return func(s *Sink) { s.breaker = b }
}

func WithSinkLogger(logger *slog.Logger) SinkOption {
	return func(s *Sink) { s.logger = logger }
}

func NewSink(p Producer, topic string, opts ...SinkOption) *Sink {
	s := &Sink{producer: p, topic: topic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if s.breaker != nil && !s.breaker.Allow() {
		return ErrCircuitOpen
	}
	err = s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.Subject),
		Value: value,
		Headers: map[string]string{
			"action":     event.Action,
			"request_id": event.RequestID,
		},
	})
	s.record(ctx, err)
	return err
}

func (s *Sink) record(ctx context.Context, err error) {
	if s.breaker == nil {
		return
	}
	var change circuit.StateChange
	if err != nil {
		change = s.breaker.RecordFailure()
	} else {
		change = s.breaker.RecordSuccess()
	}
	if s.logger == nil {
		return
	}
	switch {
	case change.Opened:
		s.logger.WarnContext(ctx, "audit stream circuit opened", "breaker", s.breaker.Name(), "topic", s.topic, "error", err)
	case change.Closed:
		s.logger.InfoContext(ctx, "audit stream circuit closed", "breaker", s.breaker.Name(), "topic", s.topic)
	}
}

var _ audit.Store = (*Sink)(nil)
