package pgdb

import (
	"context"
	"testing"

	"github.com/DRSN-tech/shop-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxEventRepo(t *testing.T) {
	pool := requireDB(t)
	repo := NewOutboxEventRepo(pool, converter.OutboxEventConverterImpl{})
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		event, err := usecase.NewOutboxEvent(usecase.EventCategoryCreated, usecase.AggregateCategory, i, map[string]any{"id": i})
		require.NoError(t, err)
		_, err = repo.Create(ctx, event)
		require.NoError(t, err)
	}

	batch, err := repo.GetAndMarkAsProcessing(ctx, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, usecase.OutboxStatusProcessing, batch[0].Status)
	assert.Equal(t, int64(1), batch[0].AggregateID)
	assert.NotEmpty(t, batch[0].Payload)

	for _, event := range batch {
		require.NoError(t, repo.MarkAsProcessed(ctx, event.ID))
	}

	rest, err := repo.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(3), rest[0].AggregateID)

	released, err := repo.ReleaseStale(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	again, err := repo.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, again, 1)

	require.NoError(t, repo.MarkAsFailed(ctx, again[0].ID, "message too large"))

	released, err = repo.ReleaseStale(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, released)

	var status, lastError string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status, last_error FROM outbox_events WHERE id = $1`, again[0].ID).
		Scan(&status, &lastError))
	assert.Equal(t, string(usecase.OutboxStatusFailed), status)
	assert.Equal(t, "message too large", lastError)
}
