package audit

import (
	"context"
	"fmt"
	"log/slog"

	"vcissuer/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger provides structured audit logging with optional event emission.
// Services use it so an audit failure never fails the business call.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. emitter may be nil.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Log records action for subject. attributes are alternating key/value pairs
// and are copied into Event.Attributes. The caller and request id are taken
// from ctx.
//
//	l.Log(ctx, audit.EventEventAdded, "", "event_name", name)
func (l *Logger) Log(ctx context.Context, action AuditEvent, subject string, attributes ...any) {
	if l == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Caller(ctx).String()

	if l.textLogger != nil {
		args := append([]any{"event", string(action), "log_type", "audit", "subject", subject, "caller", actor}, attributes...)
		if requestID != "" {
			args = append(args, "request_id", requestID)
		}
		l.textLogger.InfoContext(ctx, string(action), args...)
	}

	if l.emitter == nil {
		return
	}
	err := l.emitter.Emit(ctx, Event{
		Action:     string(action),
		Subject:    subject,
		Actor:      actor,
		Attributes: toAttributes(attributes),
		RequestID:  requestID,
		Timestamp:  requestcontext.Now(ctx),
	})
	if err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", string(action),
		)
	}
}

func toAttributes(kv []any) map[string]string {
	if len(kv) < 2 {
		return nil
	}
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out[key] = fmt.Sprint(kv[i+1])
	}
	return out
}
