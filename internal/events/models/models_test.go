package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vcissuer/pkg/domain-errors"
)

func TestAddEventRequest(t *testing.T) {
	code := func(v string) *string { return &v }

	t.Run("trims name and code", func(t *testing.T) {
		req := &AddEventRequest{EventName: " DICE2024 ", RegistrationCode: code(" ABCD ")}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, "DICE2024", req.EventName)
		assert.Equal(t, "ABCD", *req.RegistrationCode)
	})

	t.Run("missing code is allowed", func(t *testing.T) {
		req := &AddEventRequest{EventName: "DICE2024"}
		req.Normalize()
		assert.NoError(t, req.Validate())
		assert.Nil(t, req.RegistrationCode)
	})

	t.Run("explicit empty code is rejected", func(t *testing.T) {
		req := &AddEventRequest{EventName: "DICE2024", RegistrationCode: code("   ")}
		req.Normalize()
		err := req.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, EmptyRegistrationCodeMessage, err.Error())
	})
}
