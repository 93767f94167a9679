//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/storage"
	"github.com/cloo-solutions/yuholens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunner_SyncYear(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDistributionRepository(pool)
	require.NoError(t, repo.Save(ctx, 2018, "古い会社", testDistribution(nil)))
	require.NoError(t, repo.Save(ctx, 2017, "前年", testDistribution(nil)))

	records := NewRecordStore(storage.NewDirBucket(t.TempDir()))
	require.NoError(t, records.Save(ctx, 2018, "ソニー", testDistribution(map[domain.AttributeCategory][]domain.WeightedValue{
		domain.CategoryLocation: {{Label: "関東", Weight: 0.6}},
	})))
	require.NoError(t, records.Save(ctx, 2018, "トヨタ", testDistribution(nil)))

	written, err := NewTxRunner(pool).SyncYear(ctx, records, 2018)

	require.NoError(t, err)
	assert.Equal(t, 2, written)

	names, err := repo.Companies(ctx, 2018)
	require.NoError(t, err)
	assert.Equal(t, []string{"ソニー", "トヨタ"}, names)

	got, err := repo.Load(ctx, 2018, "ソニー")
	require.NoError(t, err)
	assert.Equal(t, []string{"関東"}, got.Top(domain.CategoryLocation))

	kept, err := repo.Companies(ctx, 2017)
	require.NoError(t, err)
	assert.Equal(t, []string{"前年"}, kept)
}

func TestTxRunner_SyncYearRollsBack(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDistributionRepository(pool)
	require.NoError(t, repo.Save(ctx, 2018, "残る会社", testDistribution(nil)))

	bucket := storage.NewDirBucket(t.TempDir())
	require.NoError(t, bucket.Put(ctx, "2018.json", []byte(`{"壊れた会社": {"age": {}}}`), "application/json"))

	_, err := NewTxRunner(pool).SyncYear(ctx, NewRecordStore(bucket), 2018)
	require.Error(t, err)

	names, err := repo.Companies(ctx, 2018)
	require.NoError(t, err)
	assert.Equal(t, []string{"残る会社"}, names)
}
