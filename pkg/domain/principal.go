// Package domain holds identity types shared across the issuer modules.
package domain

import (
	"strings"

	dErrors "vcissuer/pkg/domain-errors"
)

// MaxPrincipalLength bounds the textual form of a principal.
const MaxPrincipalLength = 128

// AnonymousPrincipal is the textual form of the unauthenticated caller.
const AnonymousPrincipal Principal = "2vxsx-fae"

// Principal is an opaque, globally unique caller identity. Nothing beyond
// equality is interpreted.
type Principal string

// ParsePrincipal validates a principal at a trust boundary.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	if len(s) > MaxPrincipalLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is too long")
	}
	return Principal(s), nil
}

func (p Principal) String() string { return string(p) }

// IsAnonymous reports whether p carries no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p == "" || p == AnonymousPrincipal
}

// PrincipalSet is an allow-list of principals, e.g. controllers.
type PrincipalSet map[Principal]struct{}

// NewPrincipalSet builds a set from textual principals, skipping blanks.
func NewPrincipalSet(values ...string) PrincipalSet {
	set := make(PrincipalSet, len(values))
	for _, v := range values {
		if p, err := ParsePrincipal(v); err == nil {
			set[p] = struct{}{}
		}
	}
	return set
}

// Contains reports whether p is in the set. Anonymous principals never match.
func (s PrincipalSet) Contains(p Principal) bool {
	if p.IsAnonymous() {
		return false
	}
	_, ok := s[p]
	return ok
}
