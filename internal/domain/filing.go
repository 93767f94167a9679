package domain

import (
	"fmt"
	"math"
)

// Section names a narrative part of an annual securities report.
type Section string

const (
	SectionPolicyEnvironmentIssues Section = "business_policy_environment_issue_etc"
	SectionRisks                   Section = "business_risks"
	SectionManagementAnalysis      Section = "business_management_analysis"
	SectionAnalysisOfFinance       Section = "business_analysis_of_finance"
	SectionOverviewOfResult        Section = "business_overview_of_result"
	SectionResearchAndDevelopment  Section = "business_research_and_development"
)

// AllSections lists the narrative sections loaded for every filing.
var AllSections = []Section{
	SectionPolicyEnvironmentIssues,
	SectionRisks,
	SectionManagementAnalysis,
	SectionAnalysisOfFinance,
	SectionOverviewOfResult,
	SectionResearchAndDevelopment,
}

// FinancialFigures are the headline numbers of one fiscal year, in yen. Missing
// values are NaN.
type FinancialFigures struct {
	NetSales               float64
	OperatingIncome        float64
	OrdinaryIncome         float64
	Profit                 float64
	OperatingIncomeOnSales float64
	OrdinaryIncomeOnSales  float64
	CapitalRatio           float64
}

// Valid reports whether the figures the analyses depend on are present.
func (f FinancialFigures) Valid() bool {
	return !math.IsNaN(f.NetSales) && !math.IsNaN(f.OperatingIncome) && !math.IsNaN(f.OrdinaryIncome)
}

// OperatingMargin returns operating income over net sales in percent.
func (f FinancialFigures) OperatingMargin() float64 {
	return ratioPercent(f.OperatingIncome, f.NetSales)
}

// OrdinaryMargin returns ordinary income over net sales in percent.
func (f FinancialFigures) OrdinaryMargin() float64 {
	return ratioPercent(f.OrdinaryIncome, f.NetSales)
}

func ratioPercent(n, d float64) float64 {
	if d == 0 || math.IsNaN(d) {
		return math.NaN()
	}
	return n / d * 100
}

// FiscalYearFiling is one company's filing for one fiscal year.
type FiscalYearFiling struct {
	Code     int
	Name     string
	Year     int
	DocID    string
	Figures  FinancialFigures
	Sections map[Section]string
}

// Text returns the narrative of a section, or "" when missing.
func (f *FiscalYearFiling) Text(s Section) string {
	if f == nil {
		return ""
	}
	return f.Sections[s]
}

// FinanceText is the management-analysis narrative used for sentiment.
func (f *FiscalYearFiling) FinanceText() string {
	return f.Text(SectionAnalysisOfFinance) + f.Text(SectionManagementAnalysis)
}

// AttributeText is the management-analysis narrative used for reader attributes.
func (f *FiscalYearFiling) AttributeText() string {
	return f.Text(SectionManagementAnalysis) + f.Text(SectionAnalysisOfFinance)
}

// CompanyRecord pairs a company's filings for two consecutive fiscal years.
type CompanyRecord struct {
	Code     int
	Name     string
	Previous *FiscalYearFiling
	Current  *FiscalYearFiling
}

// Year is the fiscal year of the current filing.
func (r *CompanyRecord) Year() int {
	return r.Current.Year
}

// OrdinaryIncomeDiff is the year-over-year change in ordinary income.
func (r *CompanyRecord) OrdinaryIncomeDiff() float64 {
	return r.Current.Figures.OrdinaryIncome - r.Previous.Figures.OrdinaryIncome
}

// Profitable reports whether ordinary income improved year over year.
func (r *CompanyRecord) Profitable() bool {
	return r.OrdinaryIncomeDiff() > 0
}

// FigureIssues lists why the two years cannot be compared on their figures.
func (r *CompanyRecord) FigureIssues() []string {
	var issues []string
	if r.Previous == nil || r.Current == nil {
		return append(issues, "missing fiscal year")
	}
	if !r.Current.Figures.Valid() {
		issues = append(issues, fmt.Sprintf("invalid figures for %d", r.Current.Year))
	}
	if !r.Previous.Figures.Valid() {
		issues = append(issues, fmt.Sprintf("invalid figures for %d", r.Previous.Year))
	}
	return issues
}

// ReportIssues lists why the record cannot be used for the year-over-year report.
// An empty result means the record is eligible.
func (r *CompanyRecord) ReportIssues() []string {
	issues := r.FigureIssues()
	if r.Previous == nil || r.Current == nil {
		return issues
	}
	for _, f := range []*FiscalYearFiling{r.Current, r.Previous} {
		if f.Text(SectionPolicyEnvironmentIssues) == "" {
			issues = append(issues, fmt.Sprintf("empty policy text for %d", f.Year))
		}
		if f.Text(SectionRisks) == "" {
			issues = append(issues, fmt.Sprintf("empty risk text for %d", f.Year))
		}
	}
	if r.Current.FinanceText() == "" {
		issues = append(issues, fmt.Sprintf("empty finance text for %d", r.Current.Year))
	}
	if r.Current.Text(SectionResearchAndDevelopment) == "" {
		issues = append(issues, fmt.Sprintf("empty research text for %d", r.Current.Year))
	}
	return issues
}

// AttributeIssues lists why the record cannot be used for attribute analysis.
func (r *CompanyRecord) AttributeIssues() []string {
	issues := r.FigureIssues()
	if r.Previous == nil || r.Current == nil {
		return issues
	}
	for _, f := range []*FiscalYearFiling{r.Current, r.Previous} {
		if f.FinanceText() == "" {
			issues = append(issues, fmt.Sprintf("empty finance text for %d", f.Year))
		}
	}
	return issues
}
