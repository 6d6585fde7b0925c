package models

import (
	"time"

	credential "vcissuer/internal/credential/models"
	"vcissuer/internal/idalias"
	"vcissuer/pkg/domain"
)

// PendingIssuance is the server-side state between prepare and get. It is
// keyed by ClaimsHash, the hex sha256 of SigningInput.
type PendingIssuance struct {
	ClaimsHash     string                    `json:"claims_hash"`
	CredentialType string                    `json:"credential_type"`
	Spec           credential.CredentialSpec `json:"spec"`
	Subject        domain.Principal          `json:"subject"`
	Alias          domain.Principal          `json:"alias"`
	SigningInput   string                    `json:"signing_input"`
	RequestedAt    time.Time                 `json:"requested_at"`
	ExpiresAt      time.Time                 `json:"expires_at"`
}

// IsExpired reports whether the ticket can no longer be resolved at now.
func (p *PendingIssuance) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// PrepareRequest is the body of POST /credentials/prepare.
type PrepareRequest struct {
	CredentialSpec credential.CredentialSpec `json:"credential_spec"`
	SignedIdAlias  idalias.SignedIdAlias     `json:"signed_id_alias"`
}

// PrepareResponse carries the opaque prepared context, base64 in JSON.
type PrepareResponse struct {
	PreparedContext []byte `json:"prepared_context"`
}

// GetRequest is the body of POST /credentials/get.
type GetRequest struct {
	CredentialSpec  credential.CredentialSpec `json:"credential_spec"`
	SignedIdAlias   idalias.SignedIdAlias     `json:"signed_id_alias"`
	PreparedContext []byte                    `json:"prepared_context" validate:"required"`
}

// GetResponse carries the issued credential as a compact JWS.
type GetResponse struct {
	VcJws string `json:"vc_jws"`
}
