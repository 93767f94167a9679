package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// RecordDigester fingerprints the record file of a year; "" means there is none.
type RecordDigester interface {
	Digest(ctx context.Context, year int) (string, error)
}

// YearSyncer replaces the stored distributions of a year.
type YearSyncer interface {
	SyncYear(ctx context.Context, year int) (int, error)
}

// RecordSync copies changed record files into the database.
type RecordSync struct {
	records RecordDigester
	syncer  YearSyncer
	years   []int

	mu   sync.Mutex
	seen map[int]string
}

// NewRecordSync watches the record files of years.
func NewRecordSync(records RecordDigester, syncer YearSyncer, years []int) *RecordSync {
	return &RecordSync{
		records: records,
		syncer:  syncer,
		years:   years,
		seen:    make(map[int]string),
	}
}

// Run syncs every year whose record file changed since the last successful sync.
func (s *RecordSync) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, year := range s.years {
		digest, err := s.records.Digest(ctx, year)
		if err != nil {
			errs = append(errs, fmt.Errorf("digest %d: %w", year, err))
			continue
		}
		if digest == "" || digest == s.seen[year] {
			continue
		}
		n, err := s.syncer.SyncYear(ctx, year)
		if err != nil {
			errs = append(errs, fmt.Errorf("sync %d: %w", year, err))
			continue
		}
		s.seen[year] = digest
		log.Printf("record_sync: %d companies (%d)", n, year)
	}
	return errors.Join(errs...)
}
