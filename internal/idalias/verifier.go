package idalias

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-jose/go-jose/v4"

	"vcissuer/internal/configuration/models"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
)

// InvalidAliasMessage is the only message callers ever see for a rejected alias.
const InvalidAliasMessage = "id alias could not be verified"

var supportedAlgorithms = []jose.SignatureAlgorithm{jose.EdDSA, jose.ES256}

var (
	errNoSignature      = errors.New("no signatures present")
	errUntrustedIssuer  = errors.New("issuer is not a configured authority")
	errUnknownKey       = errors.New("no root key for authority")
	errNotYetValid      = errors.New("alias not valid yet")
	errExpired          = errors.New("alias expired")
	errSubjectMismatch  = errors.New("alias subject does not match caller")
	errMissingAliasPart = errors.New("alias principal missing")
)

// Verifier checks id-alias credentials against the root of trust of the
// current issuer configuration.
type Verifier struct {
	logger *slog.Logger
}

func NewVerifier(logger *slog.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// Verify runs the checks in order: parse, authority allow-list, signature
// against the authority key, validity window, subject binding.
// Every failure is reported as invalid_id_alias; the cause is logged at debug.
func (v *Verifier) Verify(ctx context.Context, signed SignedIdAlias, expectedSubject domain.Principal, now time.Time, cfg *models.IssuerConfiguration) (*VerifiedAlias, error) {
	verified, err := v.verify(signed, expectedSubject, now, cfg)
	if err != nil {
		if v.logger != nil {
			v.logger.DebugContext(ctx, "id alias rejected",
				"error", err,
				"caller", expectedSubject,
			)
		}
		return nil, dErrors.New(dErrors.CodeInvalidIdAlias, InvalidAliasMessage)
	}
	return verified, nil
}

func (v *Verifier) verify(signed SignedIdAlias, expectedSubject domain.Principal, now time.Time, cfg *models.IssuerConfiguration) (*VerifiedAlias, error) {
	if cfg == nil {
		return nil, errors.New("issuer is not configured")
	}

	jws, err := jose.ParseSigned(signed.CredentialJWS, supportedAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("parse alias: %w", err)
	}
	if len(jws.Signatures) == 0 {
		return nil, errNoSignature
	}

	var unverified AliasClaims
	if err := json.Unmarshal(jws.UnsafePayloadWithoutVerification(), &unverified); err != nil {
		return nil, fmt.Errorf("decode alias claims: %w", err)
	}
	if !cfg.IsAuthority(unverified.Issuer) {
		return nil, fmt.Errorf("%w: %q", errUntrustedIssuer, unverified.Issuer)
	}

	key, err := authorityKey(cfg.RootKeys, jws.Signatures[0].Header.KeyID, unverified.Issuer)
	if err != nil {
		return nil, err
	}
	payload, err := jws.Verify(key)
	if err != nil {
		return nil, fmt.Errorf("verify alias signature: %w", err)
	}

	var claims AliasClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("decode verified claims: %w", err)
	}
	// The verified payload is authoritative; the unverified issuer must agree.
	if claims.Issuer != unverified.Issuer {
		return nil, errUntrustedIssuer
	}

	unix := now.Unix()
	if unix < claims.NotBefore {
		return nil, errNotYetValid
	}
	if unix >= claims.Expiry {
		return nil, errExpired
	}

	subject, err := domain.ParsePrincipal(claims.Subject)
	if err != nil || subject != expectedSubject || expectedSubject.IsAnonymous() {
		return nil, errSubjectMismatch
	}
	alias, err := domain.ParsePrincipal(claims.VC.CredentialSubject.IdAlias.HasIdAlias)
	if err != nil {
		return nil, errMissingAliasPart
	}

	return &VerifiedAlias{
		Subject:   subject,
		Alias:     alias,
		Authority: claims.Issuer,
	}, nil
}

// authorityKey finds the verification key by kid, falling back to the
// authority id as key id.
func authorityKey(keys jose.JSONWebKeySet, kid, issuer string) (*jose.JSONWebKey, error) {
	for _, id := range []string{kid, issuer} {
		if id == "" {
			continue
		}
		if found := keys.Key(id); len(found) > 0 {
			return &found[0], nil
		}
	}
	return nil, fmt.Errorf("%w %q", errUnknownKey, issuer)
}
