package filing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// Lookup loads one company-year filing.
type Lookup interface {
	Lookup(ctx context.Context, code, year int) (*domain.FiscalYearFiling, error)
}

// FiveDigitCode converts a four-digit listing code to the archive's five-digit form.
func FiveDigitCode(code int) int {
	return code * 10
}

// Catalog assembles two-year company records within a year range.
type Catalog struct {
	lookup    Lookup
	firstYear int
	lastYear  int
}

// NewCatalog creates a Catalog for [firstYear, lastYear].
func NewCatalog(lookup Lookup, firstYear, lastYear int) (*Catalog, error) {
	if firstYear > lastYear {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrInvalidYear.Message,
			fmt.Errorf("first year %d after last year %d", firstYear, lastYear))
	}
	return &Catalog{lookup: lookup, firstYear: firstYear, lastYear: lastYear}, nil
}

// Record builds the record of a four-digit code for year and year-1. Both years must
// be inside the catalog range.
func (c *Catalog) Record(ctx context.Context, code, year int) (*domain.CompanyRecord, error) {
	if year-1 < c.firstYear || year > c.lastYear {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrInvalidYear.Message,
			fmt.Errorf("%d outside %d-%d", year, c.firstYear+1, c.lastYear))
	}

	five := FiveDigitCode(code)
	current, err := c.lookup.Lookup(ctx, five, year)
	if err != nil {
		return nil, err
	}
	previous, err := c.lookup.Lookup(ctx, five, year-1)
	if err != nil {
		return nil, err
	}
	return &domain.CompanyRecord{
		Code:     five,
		Name:     current.Name,
		Previous: previous,
		Current:  current,
	}, nil
}

// Records builds the records of codes for year in order. Codes without both filings
// or with unreadable text are logged and skipped.
func (c *Catalog) Records(ctx context.Context, codes []int, year int) ([]*domain.CompanyRecord, error) {
	records := make([]*domain.CompanyRecord, 0, len(codes))
	for _, code := range codes {
		r, err := c.Record(ctx, code, year)
		switch {
		case err == nil:
			records = append(records, r)
		case errors.Is(err, domain.ErrFilingNotFound):
			continue
		case errors.Is(err, domain.ErrFilingUnreadable):
			log.Printf("filing: skipping %d: %v", code, err)
		default:
			return nil, err
		}
	}
	return records, nil
}
