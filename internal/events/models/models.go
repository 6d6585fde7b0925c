package models

import (
	"strings"
	"time"

	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/validation"
)

// EmptyRegistrationCodeMessage rejects an explicit but empty code.
const EmptyRegistrationCodeMessage = "registration code cannot be an empty string"

// Event is an occasion subjects can register attendance for. Events are
// immutable once created.
type Event struct {
	Name             string
	RegistrationCode string
	CreatedAt        time.Time
}

// AddEventRequest is the body of POST /events. A missing registration code
// is generated; an explicit empty one is rejected.
type AddEventRequest struct {
	EventName        string  `json:"event_name"`
	RegistrationCode *string `json:"registration_code,omitempty"`
}

func (r *AddEventRequest) Normalize() {
	r.EventName = strings.TrimSpace(r.EventName)
	if r.RegistrationCode != nil {
		code := strings.TrimSpace(*r.RegistrationCode)
		r.RegistrationCode = &code
	}
}

func (r *AddEventRequest) Validate() error {
	if r.EventName == "" {
		return dErrors.New(dErrors.CodeValidation, "event name cannot be an empty string")
	}
	if err := validation.CheckStringLength("event name", r.EventName, validation.MaxEventNameLength); err != nil {
		return err
	}
	if r.RegistrationCode != nil {
		if *r.RegistrationCode == "" {
			return dErrors.New(dErrors.CodeValidation, EmptyRegistrationCodeMessage)
		}
		return validation.CheckStringLength("registration code", *r.RegistrationCode, validation.MaxRegistrationCodeLength)
	}
	return nil
}

// EventView is the wire form of an event.
type EventView struct {
	EventName         string `json:"event_name"`
	RegistrationCode  string `json:"registration_code"`
	CreatedTimestampS int64  `json:"created_timestamp_s"`
}

func (e *Event) ToView() EventView {
	return EventView{
		EventName:         e.Name,
		RegistrationCode:  e.RegistrationCode,
		CreatedTimestampS: e.CreatedAt.Unix(),
	}
}

type ListEventsResponse struct {
	Events []EventView `json:"events"`
}
