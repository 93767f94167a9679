package filing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strconv"
	"sync"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/storage"
)

// Repository looks up filings in an archive laid out as
// interim/<year>/documents.csv and interim/<year>/docs/<doc_id>_<section>.txt.
type Repository struct {
	bucket storage.Bucket

	mu      sync.Mutex
	indexes map[int]*Index
}

// NewRepository creates a Repository over bucket.
func NewRepository(bucket storage.Bucket) *Repository {
	return &Repository{bucket: bucket, indexes: make(map[int]*Index)}
}

func indexKey(year int) string {
	return path.Join("interim", strconv.Itoa(year), "documents.csv")
}

func sectionKey(year int, docID string, s domain.Section) string {
	return path.Join("interim", strconv.Itoa(year), "docs", docID+"_"+string(s)+".txt")
}

// Index returns the document index of a year, loading it on first use. A year with
// no index yields domain.ErrFilingNotFound.
func (r *Repository) Index(ctx context.Context, year int) (*Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.indexes[year]; ok {
		return idx, nil
	}

	data, err := r.bucket.Get(ctx, indexKey(year))
	if errors.Is(err, domain.ErrObjectNotFound) {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, domain.ErrFilingNotFound.Message,
			fmt.Errorf("no index for %d", year))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load index for %d: %w", year, err)
	}

	idx, err := ParseIndex(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("index for %d: %w", year, err)
	}
	log.Printf("filing: loaded %d companies for %d", idx.Len(), year)
	r.indexes[year] = idx
	return idx, nil
}

// Lookup loads the filing of a five-digit security code for a fiscal year.
func (r *Repository) Lookup(ctx context.Context, code, year int) (*domain.FiscalYearFiling, error) {
	idx, err := r.Index(ctx, year)
	if err != nil {
		return nil, err
	}
	entry, ok := idx.Lookup(code)
	if !ok {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, domain.ErrFilingNotFound.Message,
			fmt.Errorf("code %d in %d", code, year))
	}

	sections := make(map[domain.Section]string, len(domain.AllSections))
	for _, s := range domain.AllSections {
		data, err := r.bucket.Get(ctx, sectionKey(year, entry.DocID, s))
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeMalformed, domain.ErrFilingUnreadable.Message,
				fmt.Errorf("%s %s: %w", entry.DocID, s, err))
		}
		sections[s] = string(data)
	}

	return &domain.FiscalYearFiling{
		Code:     code,
		Name:     entry.Name,
		Year:     year,
		DocID:    entry.DocID,
		Figures:  entry.Figures,
		Sections: sections,
	}, nil
}
