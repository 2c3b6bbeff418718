package tasks_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Omagujr8/ai-moderator/moderation/store"
	"github.com/Omagujr8/ai-moderator/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGormDB(t *testing.T) *tasks.Gormstore {
	t.Helper()
	db, err := store.SetupDatabase("sqlite://:memory:", 1)
	require.NoError(t, err)
	gs, err := tasks.NewGormstore(db)
	require.NoError(t, err)
	return gs
}

func TestGormstoreEnqueueIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	gs := testGormDB(t)

	assert.NoError(gs.EnqueueJob(ctx, 1))
	// the duplicate insert surfaces as a translated unique-constraint
	// error, which enqueueing must swallow
	assert.NoError(gs.EnqueueJob(ctx, 1))

	j, err := gs.GetJob(ctx, 1)
	assert.NoError(err)
	assert.Equal(tasks.StateEnqueued, j.State())
}

func TestGormstorePersistsRetryState(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	gs := testGormDB(t)

	assert.NoError(gs.EnqueueJob(ctx, 7))
	j, err := gs.GetJob(ctx, 7)
	assert.NoError(err)
	assert.NoError(j.SetState(ctx, tasks.StateInProgress))
	assert.NoError(j.SetState(ctx, "failed: classifier unreachable"))
	assert.Equal(1, j.RetryCount())

	// backoff hasn't elapsed yet, so the job isn't handed out again
	next, err := gs.GetNextEnqueuedJob(ctx)
	assert.NoError(err)
	assert.Nil(next)

	// fresh load from the database sees the same retry bookkeeping
	gs.LoadJobs(ctx)
	reloaded, err := gs.GetJob(ctx, 7)
	assert.NoError(err)
	assert.True(strings.HasPrefix(reloaded.State(), "failed"))
	assert.Equal(1, reloaded.RetryCount())
}
