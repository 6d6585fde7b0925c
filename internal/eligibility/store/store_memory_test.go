package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
	"vcissuer/pkg/testutil"
)

func TestInMemoryUpsert(t *testing.T) {
	ctx := context.Background()
	first := time.Unix(1_700_000_000, 0)
	later := first.Add(time.Hour)

	t.Run("joined_at is set only on creation", func(t *testing.T) {
		s := NewInMemory()
		_, err := s.Upsert(ctx, "aaaaa-aa", "", first)
		require.NoError(t, err)
		record, err := s.Upsert(ctx, "aaaaa-aa", "DICE2024", later)
		require.NoError(t, err)

		assert.Equal(t, first, record.JoinedAt)
		require.Len(t, record.Events, 1)
		assert.Equal(t, later, record.Events[0].JoinedAt)
	})

	t.Run("re-registering an event keeps the first attendance", func(t *testing.T) {
		s := NewInMemory()
		_, err := s.Upsert(ctx, "aaaaa-aa", "DICE2024", first)
		require.NoError(t, err)
		record, err := s.Upsert(ctx, "aaaaa-aa", "DICE2024", later)
		require.NoError(t, err)

		require.Len(t, record.Events, 1)
		assert.Equal(t, first, record.Events[0].JoinedAt)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := NewInMemory().FindBySubject(ctx, "nobody")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("concurrent registrations count each subject once", func(t *testing.T) {
		s := NewInMemory()
		tally := testutil.Race(50, func(idx int) error {
			_, err := s.Upsert(ctx, domain.Principal(fmt.Sprintf("subject-%d", idx%10)), "DICE2024", first)
			return err
		})
		assert.Equal(t, 50, tally.Count(testutil.Success), tally.Failures())

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, count)
	})
}
