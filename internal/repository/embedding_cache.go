package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingCacheRepository keeps chunk embeddings so repeated similarity runs do not
// re-embed unchanged text.
type EmbeddingCacheRepository struct {
	db dbtx
}

func NewEmbeddingCacheRepository(pool *pgxpool.Pool) *EmbeddingCacheRepository {
	return &EmbeddingCacheRepository{db: pool}
}

func (r *EmbeddingCacheRepository) Get(ctx context.Context, key string) ([]float32, bool, error) {
	var v pgvector.Vector
	err := r.db.QueryRow(ctx, `SELECT embedding FROM embedding_cache WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v.Slice(), true, nil
}

func (r *EmbeddingCacheRepository) Put(ctx context.Context, key, model string, embedding []float32) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO embedding_cache (key, model, embedding) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO NOTHING`,
		key, model, pgvector.NewVector(embedding),
	)
	return err
}

// Count returns the number of cached embeddings for a model.
func (r *EmbeddingCacheRepository) Count(ctx context.Context, model string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM embedding_cache WHERE model = $1`, model).Scan(&n)
	return n, err
}
