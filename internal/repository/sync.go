package repository

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// DistributionSource lists and loads distributions of a year.
type DistributionSource interface {
	Companies(ctx context.Context, year int) ([]string, error)
	Load(ctx context.Context, year int, company string) (*domain.AttributeDistribution, error)
}

// SyncYear replaces the stored distributions of year with those of source, in
// source order, in one transaction. It returns how many were written.
func (r *TxRunner) SyncYear(ctx context.Context, source DistributionSource, year int) (int, error) {
	companies, err := source.Companies(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies: %w", err)
	}

	written := 0
	err = r.WithTx(ctx, func(repos Repos) error {
		dist := repos.Distributions()
		if _, err := dist.DeleteYear(ctx, year); err != nil {
			return fmt.Errorf("failed to clear %d: %w", year, err)
		}
		for _, company := range companies {
			d, err := source.Load(ctx, year, company)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", company, err)
			}
			if err := dist.Save(ctx, year, company, d); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// RecordSyncer binds a TxRunner to one source.
type RecordSyncer struct {
	runner *TxRunner
	source DistributionSource
}

func NewRecordSyncer(runner *TxRunner, source DistributionSource) *RecordSyncer {
	return &RecordSyncer{runner: runner, source: source}
}

func (s *RecordSyncer) SyncYear(ctx context.Context, year int) (int, error) {
	return s.runner.SyncYear(ctx, s.source, year)
}
