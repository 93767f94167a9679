package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/storage"
)

// RecordStore keeps one JSON attribute record per fiscal year in a bucket:
// {"<company>": {"<category>": {"<value>": weight, ...}, ...}, ...}.
// Company order and value order are preserved.
type RecordStore struct {
	bucket storage.Bucket
	mu     sync.Mutex
}

func NewRecordStore(bucket storage.Bucket) *RecordStore {
	return &RecordStore{bucket: bucket}
}

func recordKey(year int) string {
	return strconv.Itoa(year) + ".json"
}

type yearRecord struct {
	names   []string
	entries map[string]json.RawMessage
}

func (r *RecordStore) read(ctx context.Context, year int) (*yearRecord, error) {
	rec := &yearRecord{entries: make(map[string]json.RawMessage)}
	data, err := r.bucket.Get(ctx, recordKey(year))
	if errors.Is(err, domain.ErrObjectNotFound) {
		return rec, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, malformedRecord(year, err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformedRecord(year, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, malformedRecord(year, fmt.Errorf("unexpected token %v", tok))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, malformedRecord(year, err)
		}
		if _, dup := rec.entries[name]; !dup {
			rec.names = append(rec.names, name)
		}
		rec.entries[name] = raw
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, malformedRecord(year, err)
	}
	return rec, nil
}

func (r *RecordStore) write(ctx context.Context, year int, rec *yearRecord) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range rec.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rec.entries[name])
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("encode record for %d: %w", year, err)
	}
	out.WriteByte('\n')
	return r.bucket.Put(ctx, recordKey(year), out.Bytes(), "application/json")
}

// Save adds or replaces a company's distribution in the year's record.
func (r *RecordStore) Save(ctx context.Context, year int, company string, d *domain.AttributeDistribution) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode distribution of %s: %w", company, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.read(ctx, year)
	if err != nil {
		return err
	}
	if _, ok := rec.entries[company]; !ok {
		rec.names = append(rec.names, company)
	}
	rec.entries[company] = raw
	return r.write(ctx, year, rec)
}

// Companies lists the companies in a year's record. A missing record is empty.
func (r *RecordStore) Companies(ctx context.Context, year int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.read(ctx, year)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rec.names))
	copy(names, rec.names)
	return names, nil
}

// Load returns a company's distribution from the year's record.
func (r *RecordStore) Load(ctx context.Context, year int, company string) (*domain.AttributeDistribution, error) {
	r.mu.Lock()
	rec, err := r.read(ctx, year)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	raw, ok := rec.entries[company]
	if !ok {
		return nil, domain.ErrDistributionNotFound
	}
	return decodeDistribution(company, raw)
}

// Digest fingerprints the year's record file. A missing file digests to "".
func (r *RecordStore) Digest(ctx context.Context, year int) (string, error) {
	data, err := r.bucket.Get(ctx, recordKey(year))
	if errors.Is(err, domain.ErrObjectNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func malformedRecord(year int, err error) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeMalformed, domain.ErrMalformedRecord.Message,
		fmt.Errorf("record for %d: %w", year, err))
}
