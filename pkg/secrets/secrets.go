package secrets

import (
	"crypto/rand"
	"encoding/base32"

	dErrors "vcissuer/pkg/domain-errors"
)

// RegistrationCodeLength is the number of characters in a generated event code.
const RegistrationCodeLength = 8

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// RegistrationCode creates a random, human-typeable event registration code
// of RegistrationCodeLength uppercase base32 characters.
func RegistrationCode() (string, error) {
	buf := make([]byte, 5) // 40 bits encode to exactly 8 base32 characters
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate registration code")
	}
	return codeEncoding.EncodeToString(buf), nil
}
