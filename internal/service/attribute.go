package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/telemetry"
)

// MergeUserAttributes accumulates per-chunk attribute evidence into a distribution.
// Every value a chunk reports for a category gains that chunk's share of the document
// length; single-valued categories take only the first reported value.
func MergeUserAttributes(doc domain.Document, chunks []domain.Chunk, results []*domain.UserAttributeResult) *domain.AttributeDistribution {
	acc := make(map[domain.AttributeCategory]*domain.WeightedValues, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		acc[c] = &domain.WeightedValues{}
	}
	if doc.Length == 0 {
		return domain.NewAttributeDistribution(acc)
	}

	for i, chunk := range chunks {
		if i >= len(results) || results[i] == nil {
			continue
		}
		weight := chunkWeight(chunk, doc)
		for _, category := range domain.AllCategories {
			values, ok := results[i].Values[category]
			if !ok || len(values) == 0 {
				continue
			}
			if !category.MultiValued() {
				values = values[:1]
			}
			for _, v := range values {
				if v == "" {
					continue
				}
				acc[category].Add(v, weight)
			}
		}
	}
	return domain.NewAttributeDistribution(acc)
}

// AttributeStore persists resolved distributions.
type AttributeStore interface {
	Save(ctx context.Context, year int, company string, d *domain.AttributeDistribution) error
}

// AttributeSource loads stored distributions. Load returns
// domain.ErrDistributionNotFound for an unknown company.
type AttributeSource interface {
	Companies(ctx context.Context, year int) ([]string, error)
	Load(ctx context.Context, year int, company string) (*domain.AttributeDistribution, error)
}

// RunRecorder tracks batch executions.
type RunRecorder interface {
	StartRun(ctx context.Context, kind string, year int) (string, error)
	FinishRun(ctx context.Context, id string, processed, skipped int, runErr error) error
}

// Run kinds.
const (
	RunKindAttributes = "attributes"
	RunKindReport     = "report"
)

// CollectResult summarizes an attribute collection run.
type CollectResult struct {
	Processed []string
	Skipped   []string
}

// AttributeService resolves and stores reader attribute distributions.
type AttributeService struct {
	analysis  *AnalysisService
	stores    []AttributeStore
	runs      RunRecorder
	maxLength int
}

// NewAttributeService creates an AttributeService. Distributions are saved to every
// store in order; runs may be nil.
func NewAttributeService(analysis *AnalysisService, maxLength int, runs RunRecorder, stores ...AttributeStore) (*AttributeService, error) {
	if err := ValidateChunkLength("attribute text length", maxLength); err != nil {
		return nil, err
	}
	return &AttributeService{
		analysis:  analysis,
		stores:    stores,
		runs:      runs,
		maxLength: maxLength,
	}, nil
}

// Resolve infers the distribution of one text.
func (s *AttributeService) Resolve(ctx context.Context, text string) (*domain.AttributeDistribution, error) {
	return s.analysis.UserAttributes(ctx, text, s.maxLength)
}

// Collect resolves and stores the distribution of every eligible record. The text
// analyzed is the previous year's management and finance narrative; the result is
// stored under the record's current year. Ineligible records are skipped.
func (s *AttributeService) Collect(ctx context.Context, year int, records []*domain.CompanyRecord) (*CollectResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "AttributeService.Collect", telemetry.SpanAttributes{
		Year:      year,
		Operation: "collect_attributes",
	})
	defer span.End()

	runID := startRun(ctx, s.runs, RunKindAttributes, year)

	result := &CollectResult{}
	var runErr error
	for _, r := range records {
		if issues := r.AttributeIssues(); len(issues) > 0 {
			log.Printf("attributes: skipping %s: %s", r.Name, strings.Join(issues, ", "))
			telemetry.AddBreadcrumb(ctx, "attributes", "skipped "+r.Name)
			result.Skipped = append(result.Skipped, r.Name)
			continue
		}

		if err := s.collectOne(ctx, year, r); err != nil {
			runErr = err
			break
		}
		log.Printf("attributes: stored %s (%d)", r.Name, year)
		result.Processed = append(result.Processed, r.Name)
	}

	finishRun(ctx, s.runs, runID, len(result.Processed), len(result.Skipped), runErr)
	if runErr != nil {
		span.SetError(runErr)
		return result, runErr
	}
	return result, nil
}

// collectOne resolves and stores one record under its own span.
func (s *AttributeService) collectOne(ctx context.Context, year int, r *domain.CompanyRecord) error {
	ctx, span := telemetry.StartSpan(ctx, "AttributeService.Resolve", telemetry.SpanAttributes{
		Year:      year,
		Company:   r.Name,
		Operation: "resolve_attributes",
	})
	defer span.End()

	d, err := s.Resolve(ctx, r.Previous.AttributeText())
	if err != nil {
		err = fmt.Errorf("resolve %s: %w", r.Name, err)
		span.SetError(err)
		return err
	}
	if err := s.save(ctx, year, r.Name, d); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

func (s *AttributeService) save(ctx context.Context, year int, company string, d *domain.AttributeDistribution) error {
	for _, store := range s.stores {
		if err := store.Save(ctx, year, company, d); err != nil {
			return fmt.Errorf("failed to store attributes of %s: %w", company, err)
		}
	}
	return nil
}

func startRun(ctx context.Context, runs RunRecorder, kind string, year int) string {
	if runs == nil {
		return ""
	}
	id, err := runs.StartRun(ctx, kind, year)
	if err != nil {
		log.Printf("runs: failed to record %s run: %v", kind, err)
		return ""
	}
	return id
}

func finishRun(ctx context.Context, runs RunRecorder, id string, processed, skipped int, runErr error) {
	if runs == nil || id == "" {
		return
	}
	if err := runs.FinishRun(ctx, id, processed, skipped, runErr); err != nil {
		log.Printf("runs: failed to finish run %s: %v", id, err)
	}
}

// LoadDistributions loads the stored distribution of each named company. Unknown
// companies and malformed records are skipped and logged.
func LoadDistributions(ctx context.Context, source AttributeSource, year int, companies []string) (map[string]*domain.AttributeDistribution, error) {
	out := make(map[string]*domain.AttributeDistribution, len(companies))
	for _, name := range companies {
		d, err := source.Load(ctx, year, name)
		switch {
		case err == nil:
			out[name] = d
		case errors.Is(err, domain.ErrDistributionNotFound):
			log.Printf("attributes: no stored distribution for %s (%d)", name, year)
		case errors.Is(err, domain.ErrMalformedRecord):
			log.Printf("attributes: malformed record for %s (%d): %v", name, year, err)
		default:
			return nil, fmt.Errorf("failed to load attributes of %s: %w", name, err)
		}
	}
	return out, nil
}
