// Package vctoken builds verifiable-credential JWTs whose signature is
// produced out of band. The signing input is fixed when the credential is
// prepared; the compact JWS is assembled once the signature is certified.
package vctoken

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"

	credential "vcissuer/internal/credential/models"
	"vcissuer/pkg/domain"
)

// ErrSigningInputMismatch is returned when go-jose would sign something other
// than the committed input.
var ErrSigningInputMismatch = errors.New("signing input does not match committed input")

const credentialsContext = "https://www.w3.org/2018/credentials/v1"

// Payload is the JWT body of an issued credential.
type Payload struct {
	Issuer    string               `json:"iss"`
	Subject   string               `json:"sub"`
	IssuedAt  int64                `json:"iat"`
	NotBefore int64                `json:"nbf"`
	Expiry    int64                `json:"exp"`
	JTI       string               `json:"jti"`
	VC        VerifiableCredential `json:"vc"`
}

type VerifiableCredential struct {
	Context           []string                  `json:"@context"`
	Type              []string                  `json:"type"`
	CredentialSubject map[string]map[string]any `json:"credentialSubject"`
}

// SignatureLookup returns the certified signature for a hex sha256 of a
// signing input.
type SignatureLookup func(hash string) ([]byte, error)

// Builder produces signing inputs and assembles credentials for one issuer.
type Builder struct {
	issuerID string
	public   ed25519.PublicKey
	validity time.Duration
}

func NewBuilder(issuerID string, public ed25519.PublicKey, validity time.Duration) *Builder {
	return &Builder{issuerID: issuerID, public: public, validity: validity}
}

// IssuerID is the iss of every credential and the kid of its header.
func (b *Builder) IssuerID() string { return b.issuerID }

// PublicJWK is the key credentials verify against.
func (b *Builder) PublicJWK() jose.JSONWebKey {
	return jose.JSONWebKey{Key: b.public, KeyID: b.issuerID, Algorithm: string(jose.EdDSA), Use: "sig"}
}

// NewPayload builds the credential body asserting claims about alias.
func (b *Builder) NewPayload(alias domain.Principal, claims *credential.Claims, now time.Time) Payload {
	aliasHash := sha256.Sum256([]byte(alias.String()))
	return Payload{
		Issuer:    b.issuerID,
		Subject:   alias.String(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Expiry:    now.Add(b.validity).Unix(),
		JTI: fmt.Sprintf("data:text/plain;charset=UTF-8,timestamp_ns=%d&alias_hash=%s",
			now.UnixNano(), hex.EncodeToString(aliasHash[:])),
		VC: VerifiableCredential{
			Context: []string{credentialsContext},
			Type:    []string{"VerifiableCredential", claims.CredentialType},
			CredentialSubject: map[string]map[string]any{
				claims.CredentialType: claims.Subject(),
			},
		},
	}
}

// SigningInput returns the JWS signing input (protected header and payload,
// both base64url) that the certified signature must cover.
func (b *Builder) SigningInput(payload Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode credential payload: %w", err)
	}
	capture := &captureSigner{public: b.opaquePublic()}
	if _, err := b.sign(capture, body); err != nil {
		return "", err
	}
	return string(capture.input), nil
}

// Assemble produces the compact JWS for signingInput using the certified
// signature found through lookup. Lookup errors are returned unchanged.
func (b *Builder) Assemble(signingInput string, lookup SignatureLookup) (string, error) {
	_, encodedPayload, ok := strings.Cut(signingInput, ".")
	if !ok {
		return "", fmt.Errorf("signing input is not a JWS signing input")
	}
	body, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return "", fmt.Errorf("decode signing input payload: %w", err)
	}

	signer := &certifiedSigner{public: b.opaquePublic(), expected: []byte(signingInput), lookup: lookup}
	jws, err := b.sign(signer, body)
	if err != nil {
		return "", err
	}
	return jws.CompactSerialize()
}

func (b *Builder) sign(opaque jose.OpaqueSigner, body []byte) (*jose.JSONWebSignature, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: opaque},
		(&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return nil, fmt.Errorf("create credential signer: %w", err)
	}
	return signer.Sign(body)
}

func (b *Builder) opaquePublic() *jose.JSONWebKey {
	jwk := b.PublicJWK()
	return &jwk
}

// captureSigner records the signing input without signing it.
type captureSigner struct {
	public *jose.JSONWebKey
	input  []byte
}

func (s *captureSigner) Public() *jose.JSONWebKey { return s.public }
func (s *captureSigner) Algs() []jose.SignatureAlgorithm { return []jose.SignatureAlgorithm{jose.EdDSA} }

func (s *captureSigner) SignPayload(payload []byte, _ jose.SignatureAlgorithm) ([]byte, error) {
	s.input = bytes.Clone(payload)
	return make([]byte, ed25519.SignatureSize), nil
}

// certifiedSigner answers with a previously certified signature.
type certifiedSigner struct {
	public   *jose.JSONWebKey
	expected []byte
	lookup   SignatureLookup
}

func (s *certifiedSigner) Public() *jose.JSONWebKey { return s.public }
func (s *certifiedSigner) Algs() []jose.SignatureAlgorithm { return []jose.SignatureAlgorithm{jose.EdDSA} }

func (s *certifiedSigner) SignPayload(payload []byte, _ jose.SignatureAlgorithm) ([]byte, error) {
	if !bytes.Equal(payload, s.expected) {
		return nil, ErrSigningInputMismatch
	}
	sum := sha256.Sum256(payload)
	return s.lookup(hex.EncodeToString(sum[:]))
}
