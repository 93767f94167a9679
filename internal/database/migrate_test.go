//go:build integration

package database

import (
	"context"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	require.NoError(t, Migrate(pc.ConnectionString(), "../../migrations"))
	// second run is a no-op
	require.NoError(t, Migrate(pc.ConnectionString(), "../../migrations"))

	pool, err := NewPool(ctx, Config{URL: pc.ConnectionString(), MaxConns: 2})
	require.NoError(t, err)
	defer pool.Close()

	var tables int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables
		 WHERE table_name IN ('attribute_distributions', 'embedding_cache', 'analysis_runs')`,
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)
}

func TestNewPool_BadURL(t *testing.T) {
	_, err := NewPool(context.Background(), Config{URL: "://nope"})
	assert.Error(t, err)
}
