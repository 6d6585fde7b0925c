package models

import (
	"slices"
	"strings"
	"time"

	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/validation"
)

// Record is the eligibility state of one subject. JoinedAt is set once, on
// first registration.
type Record struct {
	Subject  domain.Principal
	JoinedAt time.Time
	Events   []EventAttendance
}

// EventAttendance records that the subject registered for an event.
type EventAttendance struct {
	EventName string
	JoinedAt  time.Time
}

// Attended reports whether the subject registered for eventName.
func (r *Record) Attended(eventName string) bool {
	return slices.ContainsFunc(r.Events, func(e EventAttendance) bool {
		return e.EventName == eventName
	})
}

// Clone returns a copy whose event slice can be mutated independently.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Events = slices.Clone(r.Events)
	return &out
}

// EventRegistration is the optional event part of a registration.
type EventRegistration struct {
	EventName        string `json:"event_name"`
	RegistrationCode string `json:"registration_code"`
}

// Normalize trims the event name and code the same way POST /events does
// before storing them.
func (e *EventRegistration) Normalize() {
	e.EventName = strings.TrimSpace(e.EventName)
	e.RegistrationCode = strings.TrimSpace(e.RegistrationCode)
}

// Validate rejects registrations without an event name.
func (e *EventRegistration) Validate() error {
	if strings.TrimSpace(e.EventName) == "" {
		return dErrors.New(dErrors.CodeValidation, "event name cannot be an empty string")
	}
	if err := validation.CheckStringLength("event name", e.EventName, validation.MaxEventNameLength); err != nil {
		return err
	}
	return validation.CheckStringLength("registration code", e.RegistrationCode, validation.MaxRegistrationCodeLength)
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	EventData *EventRegistration `json:"event_data,omitempty"`
}

func (r *RegisterRequest) Normalize() {
	if r.EventData != nil {
		r.EventData.Normalize()
	}
}

// RecordView is the response of a registration.
type RecordView struct {
	JoinedTimestampS int64           `json:"joined_timestamp_s"`
	Events           []EventDataView `json:"events"`
}

type EventDataView struct {
	EventName        string `json:"event_name"`
	JoinedTimestampS int64  `json:"joined_timestamp_s"`
}

// ToView renders the record for callers.
func (r *Record) ToView() *RecordView {
	view := &RecordView{
		JoinedTimestampS: r.JoinedAt.Unix(),
		Events:           make([]EventDataView, 0, len(r.Events)),
	}
	for _, e := range r.Events {
		view.Events = append(view.Events, EventDataView{
			EventName:        e.EventName,
			JoinedTimestampS: e.JoinedAt.Unix(),
		})
	}
	return view
}
