package certifier

import (
	"crypto/ed25519"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCertifier(t *testing.T) *Certifier {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	return New(key)
}

func TestCertifyRound(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("signature appears only after a round", func(t *testing.T) {
		c := newCertifier(t)
		msg := []byte("header.payload")
		hash := c.Commit(msg)

		_, err := c.Signature(hash)
		assert.ErrorIs(t, err, ErrSignatureNotFound)
		assert.Equal(t, 1, c.Pending())

		assert.Equal(t, 1, c.CertifyRound(now))
		sig, err := c.Signature(hash)
		require.NoError(t, err)
		assert.True(t, ed25519.Verify(c.PublicKey(), msg, sig))
		assert.Zero(t, c.Pending())
	})

	t.Run("recommitting a certified message keeps the signature", func(t *testing.T) {
		c := newCertifier(t)
		hash := c.Commit([]byte("m"))
		c.CertifyRound(now)

		assert.Equal(t, hash, c.Commit([]byte("m")))
		assert.Zero(t, c.Pending())
		_, err := c.Signature(hash)
		assert.NoError(t, err)
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := newCertifier(t).Signature("00")
		assert.ErrorIs(t, err, ErrSignatureNotFound)
	})

	t.Run("prune drops old signatures", func(t *testing.T) {
		c := newCertifier(t)
		old := c.Commit([]byte("old"))
		c.CertifyRound(now)
		fresh := c.Commit([]byte("fresh"))
		c.CertifyRound(now.Add(time.Hour))

		assert.Equal(t, 1, c.Prune(now.Add(time.Minute)))
		_, err := c.Signature(old)
		assert.ErrorIs(t, err, ErrSignatureNotFound)
		_, err = c.Signature(fresh)
		assert.NoError(t, err)
	})

	t.Run("concurrent commits and rounds", func(t *testing.T) {
		c := newCertifier(t)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				c.Commit([]byte{byte(i)})
			}()
			go func() {
				defer wg.Done()
				c.CertifyRound(now)
			}()
		}
		wg.Wait()
		c.CertifyRound(now)
		assert.Zero(t, c.Pending())
	})
}

func TestKeyFromSeed(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = 7

	key, err := KeyFromSeed(base64.StdEncoding.EncodeToString(seed))
	require.NoError(t, err)
	assert.Equal(t, ed25519.NewKeyFromSeed(seed), key)

	key, err = KeyFromSeed(base64.RawURLEncoding.EncodeToString(seed))
	require.NoError(t, err)
	assert.Equal(t, ed25519.NewKeyFromSeed(seed), key)

	_, err = KeyFromSeed("c2hvcnQ=")
	assert.Error(t, err)
	_, err = KeyFromSeed("%%%")
	assert.Error(t, err)
}
