// Package certifier signs committed messages in rounds. A message committed
// now becomes signable only after the next certification round, so callers
// poll for its signature.
package certifier

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSignatureNotFound means the message is unknown or not certified yet.
var ErrSignatureNotFound = errors.New("signature not found")

type certified struct {
	signature []byte
	at        time.Time
}

// Certifier holds pending messages and certified signatures in memory.
type Certifier struct {
	mu        sync.Mutex
	key       ed25519.PrivateKey
	pending   map[string][]byte
	certified map[string]certified
}

func New(key ed25519.PrivateKey) *Certifier {
	return &Certifier{
		key:       key,
		pending:   make(map[string][]byte),
		certified: make(map[string]certified),
	}
}

// KeyFromSeed decodes a base64 (standard or URL) Ed25519 seed.
func KeyFromSeed(encoded string) (ed25519.PrivateKey, error) {
	seed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		seed, err = base64.RawURLEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// GenerateKey returns a fresh Ed25519 key.
func GenerateKey() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return priv, nil
}

func (c *Certifier) PublicKey() ed25519.PublicKey {
	return c.key.Public().(ed25519.PublicKey)
}

// Commit queues message for the next round and returns its hex sha256.
// Committing an already pending or certified message is a no-op.
func (c *Certifier) Commit(message []byte) string {
	hash := hashOf(message)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.certified[hash]; ok {
		return hash
	}
	if _, ok := c.pending[hash]; !ok {
		c.pending[hash] = append([]byte(nil), message...)
	}
	return hash
}

// CertifyRound signs every pending message and returns how many were signed.
func (c *Certifier) CertifyRound(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.pending)
	for hash, message := range c.pending {
		c.certified[hash] = certified{signature: ed25519.Sign(c.key, message), at: now}
		delete(c.pending, hash)
	}
	return n
}

// Signature returns the certified signature for hash.
func (c *Certifier) Signature(hash string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cert, ok := c.certified[hash]
	if !ok {
		return nil, ErrSignatureNotFound
	}
	return append([]byte(nil), cert.signature...), nil
}

// Prune drops signatures certified before cutoff.
func (c *Certifier) Prune(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for hash, cert := range c.certified {
		if cert.at.Before(cutoff) {
			delete(c.certified, hash)
			n++
		}
	}
	return n
}

// Pending returns the number of messages waiting for a round.
func (c *Certifier) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func hashOf(message []byte) string {
	sum := sha256.Sum256(message)
	return hex.EncodeToString(sum[:])
}
