package caller

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
)

// Claims are the claims carried by a caller bearer token. The subject is the
// caller principal.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokens mints and validates HS256 caller tokens.
type Tokens struct {
	key      []byte
	audience string
	ttl      time.Duration
}

// NewTokens creates a token service. An empty audience disables the audience check.
func NewTokens(key string, audience string, ttl time.Duration) *Tokens {
	return &Tokens{key: []byte(key), audience: audience, ttl: ttl}
}

// Issue signs a token for principal, valid from now for the configured TTL.
func (t *Tokens) Issue(principal domain.Principal, now time.Time) (string, error) {
	if principal == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   principal.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Validate checks the signature, algorithm and time claims and returns the
// caller principal.
func (t *Tokens) Validate(tokenString string) (domain.Principal, error) {
	if tokenString == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "empty token")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !token.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	principal, err := domain.ParsePrincipal(claims.Subject)
	if err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token subject is not a principal")
	}
	return principal, nil
}
