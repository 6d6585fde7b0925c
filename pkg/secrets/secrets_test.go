package secrets

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeFormat = regexp.MustCompile(`^[A-Z2-7]{8}$`)

func TestRegistrationCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		code, err := RegistrationCode()
		require.NoError(t, err)
		assert.Regexp(t, codeFormat, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 45, "codes should not repeat in a small sample")
}
