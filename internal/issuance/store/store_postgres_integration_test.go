//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	credential "vcissuer/internal/credential/models"
	"vcissuer/internal/issuance/models"
	"vcissuer/internal/issuance/store"
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
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "pending_issuance"))
}

func pendingTicket(hash string, requested time.Time, ttl time.Duration) *models.PendingIssuance {
	return &models.PendingIssuance{
		ClaimsHash:     hash,
		CredentialType: credential.TypeEventAttendance,
		Spec: credential.CredentialSpec{
			CredentialType: credential.TypeEventAttendance,
			Arguments:      map[string]credential.ArgumentValue{credential.ArgEventName: credential.StringArg("DICE2024")},
		},
		Subject:      "2mg2s-uqaaa-aaaaa-aaaaq-cai",
		Alias:        "alias-principal",
		SigningInput: "header.payload",
		RequestedAt:  requested,
		ExpiresAt:    requested.Add(ttl),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	want := pendingTicket("h1", now, time.Minute)
	s.Require().NoError(s.store.Save(ctx, want))

	got, err := s.store.FindByHash(ctx, "h1")
	s.Require().NoError(err)
	s.True(want.Spec.Equal(got.Spec))
	s.Equal(want.Alias, got.Alias)
	s.True(want.ExpiresAt.Equal(got.ExpiresAt))
}

func (s *PostgresStoreSuite) TestDeleteExpired() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Require().NoError(s.store.Save(ctx, pendingTicket("old", now, time.Minute)))
	s.Require().NoError(s.store.Save(ctx, pendingTicket("new", now, time.Hour)))

	deleted, err := s.store.DeleteExpired(ctx, now.Add(2*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, err = s.store.FindByHash(ctx, "old")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
