package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_Events(t *testing.T) {
	database := openTestDB(t)
	q := database.Queries()
	ctx := context.Background()

	for i, summary := range []string{"old", "mid", "new"} {
		id, err := q.InsertEvent(ctx, InsertEventParams{
			Kind:      "removed",
			MessageID: summary,
			Severity:  "info",
			Summary:   summary,
			CreatedAt: int64(100 * (i + 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	all, err := q.ListEvents(ctx, -1)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].Summary)
	assert.Equal(t, "old", all[2].Summary)

	limited, err := q.ListEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].Summary)

	n, err := q.DeleteEventsBefore(ctx, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := q.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, q.DeleteAllEvents(ctx))
	count, err = q.CountEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWithTx_Rollback(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.WithTx(ctx, func(q *Queries) error {
		if _, err := q.InsertEvent(ctx, InsertEventParams{Kind: "removed", CreatedAt: 1}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := database.Queries().CountEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
