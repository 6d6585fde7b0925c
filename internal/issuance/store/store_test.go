package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	credential "vcissuer/internal/credential/models"
	"vcissuer/internal/issuance/models"
	"vcissuer/internal/sentinel"
)

func ticket(hash string, requested time.Time, ttl time.Duration) *models.PendingIssuance {
	return &models.PendingIssuance{
		ClaimsHash:     hash,
		CredentialType: credential.TypeEarlyAdopter,
		Spec: credential.CredentialSpec{
			CredentialType: credential.TypeEarlyAdopter,
			Arguments:      map[string]credential.ArgumentValue{credential.ArgSinceYear: credential.IntArg(2024)},
		},
		Subject:      "2mg2s-uqaaa-aaaaa-aaaaq-cai",
		Alias:        "alias-principal",
		SigningInput: "header.payload",
		RequestedAt:  requested,
		ExpiresAt:    requested.Add(ttl),
	}
}

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.now = time.Unix(1_700_000_000, 0)
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	s.Require().NoError(s.store.Save(s.ctx, ticket("h1", s.now, time.Minute)))

	found, err := s.store.FindByHash(s.ctx, "h1")
	s.Require().NoError(err)
	s.True(found.Spec.Equal(ticket("h1", s.now, time.Minute).Spec))

	_, err = s.store.FindByHash(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDeleteExpired() {
	s.Require().NoError(s.store.Save(s.ctx, ticket("old", s.now, time.Minute)))
	s.Require().NoError(s.store.Save(s.ctx, ticket("new", s.now, time.Hour)))

	deleted, err := s.store.DeleteExpired(s.ctx, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, err = s.store.FindByHash(s.ctx, "old")
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindByHash(s.ctx, "new")
	s.NoError(err)
}

type RedisStoreSuite struct {
	suite.Suite
	ctx   context.Context
	mr    *miniredis.Miniredis
	store *RedisStore
	now   time.Time
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.mr = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })
	s.store = NewRedis(client)
	s.now = time.Unix(1_700_000_000, 0).UTC()
}

func (s *RedisStoreSuite) TestRoundTrip() {
	want := ticket("h1", s.now, 15*time.Minute)
	s.Require().NoError(s.store.Save(s.ctx, want))

	s.True(s.mr.Exists("vc_ticket:h1"))
	s.Equal(15*time.Minute, s.mr.TTL("vc_ticket:h1"))

	got, err := s.store.FindByHash(s.ctx, "h1")
	s.Require().NoError(err)
	s.Equal(want.Subject, got.Subject)
	s.True(want.Spec.Equal(got.Spec))
	s.True(want.ExpiresAt.Equal(got.ExpiresAt))
}

func (s *RedisStoreSuite) TestExpiresNatively() {
	s.Require().NoError(s.store.Save(s.ctx, ticket("h1", s.now, time.Minute)))

	s.mr.FastForward(time.Minute)

	_, err := s.store.FindByHash(s.ctx, "h1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	deleted, err := s.store.DeleteExpired(s.ctx, s.now.Add(time.Hour))
	s.NoError(err)
	s.Zero(deleted)
}

func (s *RedisStoreSuite) TestRejectsExpiredTicket() {
	s.Error(s.store.Save(s.ctx, ticket("h1", s.now, 0)))
}

func (s *RedisStoreSuite) TestCorruptValue() {
	s.Require().NoError(s.mr.Set("vc_ticket:bad", "{"))
	_, err := s.store.FindByHash(s.ctx, "bad")
	s.Error(err)
	s.NotErrorIs(err, sentinel.ErrNotFound)
}
