package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcissuer/internal/configuration/models"
	"vcissuer/internal/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	cfg := &models.IssuerConfiguration{Version: 3, DerivationOrigin: "https://o", Controllers: []string{"aaaaa-aa"}}
	require.NoError(t, s.Save(ctx, cfg))
	cfg.Controllers[0] = "mutated"

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), loaded.Version)
	assert.Equal(t, []string{"aaaaa-aa"}, loaded.Controllers)
}
