package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DistributionRepository stores attribute distributions in Postgres, one row per
// company-year. Companies are listed in first-saved order.
type DistributionRepository struct {
	db dbtx
}

func NewDistributionRepository(pool *pgxpool.Pool) *DistributionRepository {
	return &DistributionRepository{db: pool}
}

func NewDistributionRepositoryWithTx(tx pgx.Tx) *DistributionRepository {
	return &DistributionRepository{db: tx}
}

// Save inserts or replaces the distribution of a company-year.
func (r *DistributionRepository) Save(ctx context.Context, year int, company string, d *domain.AttributeDistribution) error {
	record, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode distribution of %s: %w", company, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO attribute_distributions (year, company, record, updated_at)
		 VALUES ($1, $2, $3::json, NOW())
		 ON CONFLICT (year, company)
		 DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()`,
		year, company, string(record),
	)
	return err
}

// Companies lists the companies stored for a year.
func (r *DistributionRepository) Companies(ctx context.Context, year int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT company FROM attribute_distributions WHERE year = $1 ORDER BY seq ASC`,
		year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		companies = append(companies, name)
	}
	return companies, rows.Err()
}

// Load returns the stored distribution of a company-year.
func (r *DistributionRepository) Load(ctx context.Context, year int, company string) (*domain.AttributeDistribution, error) {
	var raw string
	err := r.db.QueryRow(ctx,
		`SELECT record::text FROM attribute_distributions WHERE year = $1 AND company = $2`,
		year, company,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDistributionNotFound
		}
		return nil, err
	}
	return decodeDistribution(company, []byte(raw))
}

// DeleteYear removes every distribution of a year.
func (r *DistributionRepository) DeleteYear(ctx context.Context, year int) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM attribute_distributions WHERE year = $1`, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func decodeDistribution(company string, raw []byte) (*domain.AttributeDistribution, error) {
	var record map[string]*domain.WeightedValues
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeMalformed, domain.ErrMalformedRecord.Message,
			fmt.Errorf("%s: %w", company, err))
	}
	d, err := domain.DistributionFromRecord(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", company, err)
	}
	return d, nil
}
