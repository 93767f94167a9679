//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRunRepository(pool)

	ok, err := repo.StartRun(ctx, "attributes", 2018)
	require.NoError(t, err)
	failed, err := repo.StartRun(ctx, "report", 2018)
	require.NoError(t, err)

	run, err := repo.GetByID(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusRunning, run.Status)
	assert.Nil(t, run.FinishedAt)

	require.NoError(t, repo.FinishRun(ctx, ok, 28, 2, nil))
	require.NoError(t, repo.FinishRun(ctx, failed, 3, 0, errors.New("disk full")))

	run, err = repo.GetByID(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, 28, run.Processed)
	assert.Equal(t, 2, run.Skipped)
	assert.NotNil(t, run.FinishedAt)

	run, err = repo.GetByID(ctx, failed)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.Equal(t, "disk full", run.Error)

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestRunRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRunRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.ErrorIs(t, repo.FinishRun(ctx, uuid.NewString(), 0, 0, nil), domain.ErrRunNotFound)
}
