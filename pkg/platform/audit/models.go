package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Action     string            `json:"action"`
	Subject    string            `json:"subject,omitempty"`
	Actor      string            `json:"actor,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventSubjectRegistered  AuditEvent = "subject_registered"
	EventEventAdded         AuditEvent = "event_added"
	EventCredentialPrepared AuditEvent = "credential_prepared"
	EventCredentialIssued   AuditEvent = "credential_issued"
	EventIssuerConfigured   AuditEvent = "issuer_configured"
)
