package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/telemetry"
)

// ReportConfig tunes the year-over-year report.
type ReportConfig struct {
	MaxLength           int
	SimilarityThreshold float64
	SummaryRatio        float64
}

// comparedSections are diffed year over year; a section is summarized when its
// similarity falls below the threshold.
var comparedSections = []domain.Section{
	domain.SectionPolicyEnvironmentIssues,
	domain.SectionRisks,
}

// ReportService builds per-company year-over-year reports.
type ReportService struct {
	analysis *AnalysisService
	cfg      ReportConfig
	runs     RunRecorder
}

// NewReportService creates a ReportService. Similarity is computed on chunks of half
// the configured length.
func NewReportService(analysis *AnalysisService, cfg ReportConfig, runs RunRecorder) (*ReportService, error) {
	if err := ValidateChunkLength("max text length", cfg.MaxLength); err != nil {
		return nil, err
	}
	if err := ValidateChunkLength("similarity text length", cfg.MaxLength/2); err != nil {
		return nil, err
	}
	return &ReportService{analysis: analysis, cfg: cfg, runs: runs}, nil
}

// Build analyzes one eligible record.
func (s *ReportService) Build(ctx context.Context, r *domain.CompanyRecord) (*domain.CompanyReport, error) {
	if issues := r.ReportIssues(); len(issues) > 0 {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "record not eligible for report",
			fmt.Errorf("%s: %s", r.Name, strings.Join(issues, ", ")))
	}

	ctx, span := telemetry.StartSpan(ctx, "ReportService.Build", telemetry.SpanAttributes{
		Year:      r.Year(),
		Company:   r.Name,
		Operation: "build_report",
	})
	defer span.End()

	report, err := s.build(ctx, r)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return report, nil
}

func (s *ReportService) build(ctx context.Context, r *domain.CompanyRecord) (*domain.CompanyReport, error) {
	report := &domain.CompanyReport{
		Name:     r.Name,
		Year:     r.Year(),
		Previous: r.Previous.Figures,
		Current:  r.Current.Figures,
	}

	for _, section := range comparedSections {
		score, err := s.analysis.Similarity(ctx, r.Previous.Text(section), r.Current.Text(section), s.cfg.MaxLength/2)
		if err != nil {
			return nil, err
		}
		digest := domain.SectionDigest{Section: section, Similarity: score}
		if score < s.cfg.SimilarityThreshold {
			digest.Changed = true
			digest.Summary, err = s.analysis.Summarize(ctx, r.Current.Text(section), s.cfg.MaxLength, s.cfg.SummaryRatio)
			if err != nil {
				return nil, err
			}
		}
		report.Digests = append(report.Digests, digest)
	}

	finance := r.Current.FinanceText()
	sentiment, err := s.analysis.Sentiment(ctx, finance, s.cfg.MaxLength)
	if err != nil {
		return nil, err
	}
	report.Sentiment = sentiment
	report.Contradicted = IsContradicted(r.Previous.Figures, r.Current.Figures, sentiment)
	if report.Contradicted {
		report.FinanceOriginal = finance
	} else {
		report.FinanceSummary, err = s.analysis.Summarize(ctx, finance, s.cfg.MaxLength, s.cfg.SummaryRatio)
		if err != nil {
			return nil, err
		}
	}

	research := r.Current.Text(domain.SectionResearchAndDevelopment)
	report.ResearchKeywords, err = s.analysis.NamedEntities(ctx, research, s.cfg.MaxLength)
	if err != nil {
		return nil, err
	}
	report.ResearchSummary, err = s.analysis.Summarize(ctx, research, s.cfg.MaxLength, s.cfg.SummaryRatio)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// BuildAll builds the reports of every eligible record in order, skipping the rest.
func (s *ReportService) BuildAll(ctx context.Context, year int, records []*domain.CompanyRecord) ([]domain.CompanyReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.BuildAll", telemetry.SpanAttributes{
		Year:      year,
		Operation: "build_reports",
	})
	defer span.End()

	runID := startRun(ctx, s.runs, RunKindReport, year)

	reports := make([]domain.CompanyReport, 0, len(records))
	skipped := 0
	var runErr error
	for _, r := range records {
		if issues := r.ReportIssues(); len(issues) > 0 {
			log.Printf("report: skipping %s: %s", r.Name, strings.Join(issues, ", "))
			telemetry.AddBreadcrumb(ctx, "report", "skipped "+r.Name)
			skipped++
			continue
		}
		report, err := s.Build(ctx, r)
		if err != nil {
			runErr = fmt.Errorf("report %s: %w", r.Name, err)
			break
		}
		reports = append(reports, *report)
	}

	finishRun(ctx, s.runs, runID, len(reports), skipped, runErr)
	if runErr != nil {
		span.SetError(runErr)
		return reports, runErr
	}
	return reports, nil
}

// IsContradicted reports whether operating or ordinary income rose while the
// dominant sentiment of the finance narrative is negative.
func IsContradicted(previous, current domain.FinancialFigures, sentiment domain.SentimentTotals) bool {
	return domain.IncomeRose(previous, current) && sentiment.Dominant() == domain.SentimentNegative
}
