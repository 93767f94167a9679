package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository records batch executions in analysis_runs.
type RunRepository struct {
	db dbtx
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: pool}
}

func NewRunRepositoryWithTx(tx pgx.Tx) *RunRepository {
	return &RunRepository{db: tx}
}

func (r *RunRepository) StartRun(ctx context.Context, kind string, year int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(ctx,
		`INSERT INTO analysis_runs (id, kind, year, status, started_at) VALUES ($1, $2, $3, $4, $5)`,
		id, kind, year, domain.RunStatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *RunRepository) FinishRun(ctx context.Context, id string, processed, skipped int, runErr error) error {
	status := domain.RunStatusCompleted
	var errMsg *string
	if runErr != nil {
		status = domain.RunStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $2, processed = $3, skipped = $4, error = $5, finished_at = $6
		 WHERE id = $1`,
		id, status, processed, skipped, errMsg, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, kind, year, status, processed, skipped, error, started_at, finished_at
		 FROM analysis_runs WHERE id = $1`,
		id,
	)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	return run, err
}

// Recent lists the latest runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]*domain.AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, kind, year, status, processed, skipped, error, started_at, finished_at
		 FROM analysis_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*domain.AnalysisRun, error) {
	var run domain.AnalysisRun
	var errMsg pgtype.Text
	if err := row.Scan(&run.ID, &run.Kind, &run.Year, &run.Status, &run.Processed, &run.Skipped,
		&errMsg, &run.StartedAt, &run.FinishedAt); err != nil {
		return nil, err
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return &run, nil
}
