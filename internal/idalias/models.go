// Package idalias verifies id-alias credentials issued by a trusted identity
// authority and binds them to the calling principal.
package idalias

import (
	"vcissuer/pkg/domain"
)

// AliasCredentialType is the credentialSubject key carrying the alias.
const AliasCredentialType = "InternetIdentityIdAlias"

// SignedIdAlias is the caller-presented alias credential.
type SignedIdAlias struct {
	CredentialJWS string `json:"credential_jws" validate:"required"`
}

// VerifiedAlias binds a caller principal to an alias principal.
// It lives for a single request and is never persisted.
type VerifiedAlias struct {
	Subject   domain.Principal
	Alias     domain.Principal
	Authority string
}

// AliasClaims is the JWT-VC payload of an id-alias credential.
// Times are Unix seconds.
type AliasClaims struct {
	Issuer    string  `json:"iss"`
	Subject   string  `json:"sub"`
	NotBefore int64   `json:"nbf"`
	Expiry    int64   `json:"exp"`
	IssuedAt  int64   `json:"iat"`
	VC        AliasVC `json:"vc"`
}

type AliasVC struct {
	Context           []string     `json:"@context,omitempty"`
	Type              []string     `json:"type,omitempty"`
	CredentialSubject AliasSubject `json:"credentialSubject"`
}

type AliasSubject struct {
	IdAlias AliasAttribute `json:"InternetIdentityIdAlias"`
}

type AliasAttribute struct {
	HasIdAlias string `json:"hasIdAlias"`
}
