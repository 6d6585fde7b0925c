//go:build integration

package store_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/suite"

	"vcissuer/internal/configuration/models"
	"vcissuer/internal/configuration/store"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "issuer_configuration"))
}

func (s *PostgresStoreSuite) TestLoadEmpty() {
	_, err := s.store.Load(context.Background())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveOverwritesSingleRow() {
	ctx := context.Background()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)

	first := &models.IssuerConfiguration{
		Version:           1,
		DerivationOrigin:  "https://one.example",
		FrontendHostnames: []string{"https://one.example"},
		RootKeys:          jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{Key: pub, KeyID: "authority"}}},
	}
	s.Require().NoError(s.store.Save(ctx, first))

	second := first.Clone()
	second.Version = 2
	second.DerivationOrigin = "https://two.example"
	s.Require().NoError(s.store.Save(ctx, second))

	loaded, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), loaded.Version)
	s.Equal("https://two.example", loaded.DerivationOrigin)
	s.Require().Len(loaded.RootKeys.Keys, 1)
	s.Equal("authority", loaded.RootKeys.Keys[0].KeyID)
}
