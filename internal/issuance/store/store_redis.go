package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vcissuer/internal/issuance/models"
	"vcissuer/internal/sentinel"
)

const ticketKeyPrefix = "vc_ticket:"

// RedisStore keeps pending issuances as JSON values whose TTL matches the
// ticket lifetime, so expiry is handled by Redis.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func ticketKey(hash string) string {
	return ticketKeyPrefix + hash
}

func (s *RedisStore) Save(ctx context.Context, ticket *models.PendingIssuance) error {
	ttl := ticket.ExpiresAt.Sub(ticket.RequestedAt)
	if ttl <= 0 {
		return fmt.Errorf("ticket %s already expired", ticket.ClaimsHash)
	}
	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}
	if err := s.client.Set(ctx, ticketKey(ticket.ClaimsHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("save ticket: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByHash(ctx context.Context, hash string) (*models.PendingIssuance, error) {
	data, err := s.client.Get(ctx, ticketKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	var ticket models.PendingIssuance
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket: %w", err)
	}
	return &ticket, nil
}

// DeleteExpired is a no-op: keys carry their own TTL.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
