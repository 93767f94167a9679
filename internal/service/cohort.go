package service

import (
	"context"
	"log"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/telemetry"
)

// Differentiate bin-counts the projected top values of every category across each
// cohort. Counts are absolute; table sizes carry the cohort sizes.
func Differentiate(a, b domain.Cohort) (domain.FrequencyTable, domain.FrequencyTable) {
	return binCount(a), binCount(b)
}

func binCount(c domain.Cohort) domain.FrequencyTable {
	table := domain.NewFrequencyTable(c.Name, c.Size())
	for _, company := range c.Companies {
		if company.Attributes == nil {
			continue
		}
		for _, category := range domain.AllCategories {
			for _, v := range company.Attributes.Top(category) {
				table.Counts[category].Inc(v)
			}
		}
	}
	return table
}

// CohortComparison is the outcome of a cohort analysis for one fiscal year.
type CohortComparison struct {
	Year         int                   `json:"year"`
	Profitable   domain.FrequencyTable `json:"profitable"`
	Unprofitable domain.FrequencyTable `json:"unprofitable"`
	Skipped      []string              `json:"skipped,omitempty"`
}

// CohortService splits companies by ordinary-income change and compares the
// attribute distributions of the two groups.
type CohortService struct {
	source AttributeSource
}

// NewCohortService creates a CohortService.
func NewCohortService(source AttributeSource) *CohortService {
	return &CohortService{source: source}
}

// Classify splits analyzed companies into profitable and unprofitable cohorts,
// preserving input order.
func Classify(companies []domain.CompanyAnalysis) (domain.Cohort, domain.Cohort) {
	profitable := domain.Cohort{Name: domain.CohortProfitable}
	unprofitable := domain.Cohort{Name: domain.CohortUnprofitable}
	for _, c := range companies {
		if c.Record.Profitable() {
			profitable.Companies = append(profitable.Companies, c)
		} else {
			unprofitable.Companies = append(unprofitable.Companies, c)
		}
	}
	return profitable, unprofitable
}

// Compare loads the stored distribution of each record's company and compares the
// two cohorts. Records with unusable figures or without a stored distribution are
// skipped.
func (s *CohortService) Compare(ctx context.Context, year int, records []*domain.CompanyRecord) (*CohortComparison, error) {
	ctx, span := telemetry.StartSpan(ctx, "CohortService.Compare", telemetry.SpanAttributes{
		Year:      year,
		Operation: "compare_cohorts",
	})
	defer span.End()

	var usable []*domain.CompanyRecord
	var skipped []string
	names := make([]string, 0, len(records))
	for _, r := range records {
		if issues := r.FigureIssues(); len(issues) > 0 {
			log.Printf("cohort: skipping %s: %s", r.Name, strings.Join(issues, ", "))
			skipped = append(skipped, r.Name)
			continue
		}
		usable = append(usable, r)
		names = append(names, r.Name)
	}

	distributions, err := LoadDistributions(ctx, s.source, year, names)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	analyzed := make([]domain.CompanyAnalysis, 0, len(usable))
	for _, r := range usable {
		d, ok := distributions[r.Name]
		if !ok {
			skipped = append(skipped, r.Name)
			continue
		}
		analyzed = append(analyzed, domain.CompanyAnalysis{Record: r, Attributes: d})
	}

	profitable, unprofitable := Classify(analyzed)
	log.Printf("cohort: %d profitable, %d unprofitable, %d skipped (%d)",
		profitable.Size(), unprofitable.Size(), len(skipped), year)

	pt, ut := Differentiate(profitable, unprofitable)
	return &CohortComparison{
		Year:         year,
		Profitable:   pt,
		Unprofitable: ut,
		Skipped:      skipped,
	}, nil
}
