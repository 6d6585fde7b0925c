// Package validation holds the size limits enforced at the issuer's trust
// boundaries and small helpers to check them.
package validation

import (
	"fmt"

	dErrors "vcissuer/pkg/domain-errors"
)

// MaxBodySize is the default request body cap. Configuration requests with
// a JWKS are the largest bodies the issuer accepts.
const MaxBodySize int64 = 64 * 1024

// Slice element count limits
const (
	// MaxFrontendHostnames is the maximum number of frontend hostnames in a configuration.
	MaxFrontendHostnames = 32

	// MaxAuthorityIDs is the maximum number of trusted id-alias authorities.
	MaxAuthorityIDs = 16

	// MaxControllers is the maximum number of controller principals.
	MaxControllers = 100

	// MaxRootKeys is the maximum number of keys in the root key set.
	MaxRootKeys = 32
)

// String element length limits
const (
	// MaxEventNameLength is the maximum length of an event name.
	MaxEventNameLength = 128

	// MaxRegistrationCodeLength is the maximum length of an event registration code.
	MaxRegistrationCodeLength = 64

	// MaxHostnameLength is the maximum length of a frontend hostname.
	MaxHostnameLength = 253

	// MaxOriginLength is the maximum length of a derivation origin or authority id.
	MaxOriginLength = 2048
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates every element of values against max.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if err := CheckStringLength(fieldName, v, max); err != nil {
			return err
		}
	}
	return nil
}
