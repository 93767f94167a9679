// Package report renders analysis results as markdown.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

const oku = 1e8

var sectionTitles = map[domain.Section]string{
	domain.SectionPolicyEnvironmentIssues: "経営方針、経営環境及び対処すべき課題等",
	domain.SectionRisks:                   "事業等のリスク",
	domain.SectionAnalysisOfFinance:       "財政状態、経営成績及びキャッシュ・フローの状況の分析",
	domain.SectionResearchAndDevelopment:  "研究開発活動",
}

// Title returns the Japanese heading of a narrative section.
func Title(s domain.Section) string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) details(summary, body string) {
	e.printf("<details><summary>%s</summary><div>\n%s\n</div></details>\n", summary, body)
}

// Render writes one section per company report.
func Render(w io.Writer, reports []domain.CompanyReport) error {
	ew := &errWriter{w: w}
	for _, r := range reports {
		renderCompany(ew, r)
	}
	return ew.err
}

func renderCompany(ew *errWriter, r domain.CompanyReport) {
	prevYear, curYear := r.Year-1, r.Year

	ew.printf("---\n### [%s]\n", r.Name)
	ew.printf("総売上　: %s億円(%d) => %s億円(%d)\n",
		amount(r.Previous.NetSales), prevYear, amount(r.Current.NetSales), curYear)
	ew.printf("営業利益: %s億円(%d) => %s億円(%d), 営業利益率%s%%(%d) => %s%%(%d)\n",
		amount(r.Previous.OperatingIncome), prevYear, amount(r.Current.OperatingIncome), curYear,
		percent(r.Previous.OperatingMargin()), prevYear, percent(r.Current.OperatingMargin()), curYear)
	ew.printf("経常利益: %s億円(%d) => %s億円(%d), 経常利益率%s%%(%d) => %s%%(%d)\n\n",
		amount(r.Previous.OrdinaryIncome), prevYear, amount(r.Current.OrdinaryIncome), curYear,
		percent(r.Previous.OrdinaryMargin()), prevYear, percent(r.Current.OrdinaryMargin()), curYear)

	for _, d := range r.Digests {
		if !d.Changed {
			continue
		}
		ew.printf("#### %s\n", Title(d.Section))
		ew.printf("類似度: %.2f\n", d.Similarity)
		ew.details("要約", d.Summary)
	}

	ew.printf("#### %s\n", Title(domain.SectionAnalysisOfFinance))
	if ranked := r.Sentiment.Ranked(); len(ranked) > 0 {
		parts := make([]string, 0, len(ranked))
		for _, v := range ranked {
			parts = append(parts, fmt.Sprintf("%s %.3f", v.Label, v.Weight))
		}
		ew.printf("感情: %s\n", strings.Join(parts, ", "))
	}
	if r.Contradicted {
		ew.details("原文", r.FinanceOriginal)
	} else {
		ew.details("要約", r.FinanceSummary)
	}

	ew.printf("#### %s\n", Title(domain.SectionResearchAndDevelopment))
	keywords := make([]string, 0, len(r.ResearchKeywords))
	for _, e := range r.ResearchKeywords {
		keywords = append(keywords, e.Form)
	}
	ew.details("キーワード", strings.Join(keywords, ", "))
	ew.details("要約", r.ResearchSummary)
	ew.printf("---\n")
}

func amount(yen float64) string {
	if math.IsNaN(yen) {
		return "    n/a"
	}
	return fmt.Sprintf("%7.2f", yen/oku)
}

func percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", p)
}

// RenderCohorts writes a side-by-side count table per attribute category.
func RenderCohorts(w io.Writer, year int, a, b domain.FrequencyTable) error {
	ew := &errWriter{w: w}
	ew.printf("## %d: %s %d社 / %s %d社\n\n", year, a.Cohort, a.Size, b.Cohort, b.Size)

	for _, c := range domain.AllCategories {
		ew.printf("### %s\n\n| value | %s | %s |\n|---|---:|---:|\n", c, a.Cohort, b.Cohort)
		for _, value := range mergedValues(a.Category(c), b.Category(c)) {
			ew.printf("| %s | %d | %d |\n", value, count(a, c, value), count(b, c, value))
		}
		ew.printf("\n")
	}
	return ew.err
}

func mergedValues(a, b []domain.ValueCount) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]domain.ValueCount{a, b} {
		for _, v := range list {
			if !seen[v.Value] {
				seen[v.Value] = true
				out = append(out, v.Value)
			}
		}
	}
	return out
}

func count(t domain.FrequencyTable, c domain.AttributeCategory, value string) int {
	v, ok := t.Counts[c]
	if !ok {
		return 0
	}
	return v.Count(value)
}
