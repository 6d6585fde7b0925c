//go:build integration

// Package containers starts the Postgres, Redis and Kafka fixtures used by
// integration tests. Each container starts on first use and is shared by
// every suite in the test binary; Ryuk removes them when the process exits.
package containers

import (
	"sync"
	"testing"
)

// lazy starts a container once. A failed start is not retried: every later
// caller fails with the same error.
type lazy[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (l *lazy[T]) get(t *testing.T, start func() (T, error)) T {
	t.Helper()
	l.once.Do(func() { l.value, l.err = start() })
	if l.err != nil {
		t.Fatalf("start container: %v", l.err)
	}
	return l.value
}

type Manager struct {
	postgres lazy[*PostgresContainer]
	redis    lazy[*RedisContainer]
	kafka    lazy[*KafkaContainer]
}

var manager = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	return manager
}

// GetPostgres returns a migrated Postgres container.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return m.postgres.get(t, startPostgres)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return m.redis.get(t, startRedis)
}

func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	return m.kafka.get(t, startKafka)
}
