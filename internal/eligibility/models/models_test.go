package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dErrors "vcissuer/pkg/domain-errors"
)

func TestEventRegistrationValidate(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		err := (&EventRegistration{EventName: " ", RegistrationCode: "ABC"}).Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "event name cannot be an empty string")
	})

	t.Run("valid name", func(t *testing.T) {
		assert.NoError(t, (&EventRegistration{EventName: "DICE2024"}).Validate())
	})
}

func TestRegisterRequestNormalize(t *testing.T) {
	req := &RegisterRequest{EventData: &EventRegistration{EventName: " DICE2024\t", RegistrationCode: " ABCD "}}
	req.Normalize()
	assert.Equal(t, "DICE2024", req.EventData.EventName)
	assert.Equal(t, "ABCD", req.EventData.RegistrationCode)

	assert.NotPanics(t, (&RegisterRequest{}).Normalize)
}

func TestRecordView(t *testing.T) {
	joined := time.Unix(1_700_000_000, 0)
	r := &Record{
		Subject:  "aaaaa-aa",
		JoinedAt: joined,
		Events:   []EventAttendance{{EventName: "DICE2024", JoinedAt: joined.Add(time.Hour)}},
	}

	view := r.ToView()
	assert.Equal(t, int64(1_700_000_000), view.JoinedTimestampS)
	assert.Equal(t, []EventDataView{{EventName: "DICE2024", JoinedTimestampS: 1_700_003_600}}, view.Events)
	assert.True(t, r.Attended("DICE2024"))
	assert.False(t, r.Attended("Other"))
}

func TestRecordClone(t *testing.T) {
	r := &Record{Subject: "aaaaa-aa", Events: []EventAttendance{{EventName: "A"}}}
	c := r.Clone()
	c.Events[0].EventName = "B"
	assert.Equal(t, "A", r.Events[0].EventName)
}
