package idalias

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"

	"vcissuer/pkg/domain"
)

// Authority mints id-alias credentials. The issuer never mints aliases in
// production; the authority exists for the devtool and for tests.
type Authority struct {
	id  string
	key ed25519.PrivateKey
}

// NewAuthority returns an authority with a fresh Ed25519 key.
func NewAuthority(id string) (*Authority, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate authority key: %w", err)
	}
	return &Authority{id: id, key: priv}, nil
}

// NewAuthorityFromSeed builds an authority from a 32-byte Ed25519 seed.
func NewAuthorityFromSeed(id string, seed []byte) (*Authority, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("authority seed must be %d bytes", ed25519.SeedSize)
	}
	return &Authority{id: id, key: ed25519.NewKeyFromSeed(seed)}, nil
}

func (a *Authority) ID() string { return a.id }

// PublicJWK is the root-of-trust entry for this authority, keyed by its id.
func (a *Authority) PublicJWK() jose.JSONWebKey {
	return jose.JSONWebKey{
		Key:       a.key.Public(),
		KeyID:     a.id,
		Algorithm: string(jose.EdDSA),
		Use:       "sig",
	}
}

// KeySet wraps PublicJWK into a JWKS.
func (a *Authority) KeySet() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{a.PublicJWK()}}
}

// MintOptions overrides claim values, mostly to build invalid aliases in tests.
type MintOptions struct {
	Issuer string
	KeyID  string
}

// Mint signs an alias credential binding subject to alias, valid for
// validity starting at issuedAt.
func (a *Authority) Mint(subject, alias domain.Principal, issuedAt time.Time, validity time.Duration) (SignedIdAlias, error) {
	return a.MintWith(subject, alias, issuedAt, validity, MintOptions{})
}

func (a *Authority) MintWith(subject, alias domain.Principal, issuedAt time.Time, validity time.Duration, opts MintOptions) (SignedIdAlias, error) {
	issuer := a.id
	if opts.Issuer != "" {
		issuer = opts.Issuer
	}
	kid := a.id
	if opts.KeyID != "" {
		kid = opts.KeyID
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: a.key}, &jose.SignerOptions{
		ExtraHeaders: map[jose.HeaderKey]interface{}{
			jose.HeaderKey("kid"): kid,
			jose.HeaderType:       "JWT",
		},
	})
	if err != nil {
		return SignedIdAlias{}, fmt.Errorf("failed to create signer: %w", err)
	}

	claims := AliasClaims{
		Issuer:    issuer,
		Subject:   subject.String(),
		NotBefore: issuedAt.Unix(),
		IssuedAt:  issuedAt.Unix(),
		Expiry:    issuedAt.Add(validity).Unix(),
		VC: AliasVC{
			Context: []string{"https://www.w3.org/2018/credentials/v1"},
			Type:    []string{"VerifiableCredential", AliasCredentialType},
			CredentialSubject: AliasSubject{
				IdAlias: AliasAttribute{HasIdAlias: alias.String()},
			},
		},
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return SignedIdAlias{}, fmt.Errorf("failed to marshal claims: %w", err)
	}

	jws, err := signer.Sign(payload)
	if err != nil {
		return SignedIdAlias{}, fmt.Errorf("failed to sign payload: %w", err)
	}
	token, err := jws.CompactSerialize()
	if err != nil {
		return SignedIdAlias{}, fmt.Errorf("failed to serialize JWS: %w", err)
	}
	return SignedIdAlias{CredentialJWS: token}, nil
}
