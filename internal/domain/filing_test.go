package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullFiling(year int, ordinary float64) *FiscalYearFiling {
	return &FiscalYearFiling{
		Name:    "トヨタ自動車",
		Year:    year,
		Figures: FinancialFigures{NetSales: 1000, OperatingIncome: ordinary, OrdinaryIncome: ordinary},
		Sections: map[Section]string{
			SectionPolicyEnvironmentIssues: "方針",
			SectionRisks:                   "リスク",
			SectionManagementAnalysis:      "経営者",
			SectionAnalysisOfFinance:       "財政",
			SectionResearchAndDevelopment:  "研究",
		},
	}
}

func TestFinancialFigures_Margins(t *testing.T) {
	f := FinancialFigures{NetSales: 200, OperatingIncome: 30, OrdinaryIncome: 50}

	assert.InDelta(t, 15.0, f.OperatingMargin(), 1e-9)
	assert.InDelta(t, 25.0, f.OrdinaryMargin(), 1e-9)
	assert.True(t, math.IsNaN(FinancialFigures{OperatingIncome: 1}.OperatingMargin()))
	assert.True(t, math.IsNaN(FinancialFigures{NetSales: math.NaN()}.OrdinaryMargin()))
}

func TestFinancialFigures_Valid(t *testing.T) {
	assert.True(t, FinancialFigures{}.Valid())
	assert.False(t, FinancialFigures{OrdinaryIncome: math.NaN()}.Valid())
	assert.True(t, FinancialFigures{Profit: math.NaN()}.Valid())
}

func TestFiscalYearFiling_Texts(t *testing.T) {
	f := fullFiling(2018, 1)

	assert.Equal(t, "財政経営者", f.FinanceText())
	assert.Equal(t, "経営者財政", f.AttributeText())
	assert.Empty(t, f.Text(SectionOverviewOfResult))

	var missing *FiscalYearFiling
	assert.Empty(t, missing.Text(SectionRisks))
}

func TestCompanyRecord_Profitable(t *testing.T) {
	r := &CompanyRecord{Previous: fullFiling(2017, 100), Current: fullFiling(2018, 120)}
	assert.True(t, r.Profitable())
	assert.Equal(t, 2018, r.Year())

	r.Current.Figures.OrdinaryIncome = 100
	assert.False(t, r.Profitable())
}

func TestCompanyRecord_Issues(t *testing.T) {
	eligible := &CompanyRecord{Previous: fullFiling(2017, 1), Current: fullFiling(2018, 2)}
	assert.Empty(t, eligible.ReportIssues())
	assert.Empty(t, eligible.AttributeIssues())

	noResearch := &CompanyRecord{Previous: fullFiling(2017, 1), Current: fullFiling(2018, 2)}
	delete(noResearch.Current.Sections, SectionResearchAndDevelopment)
	assert.Equal(t, []string{"empty research text for 2018"}, noResearch.ReportIssues())
	assert.Empty(t, noResearch.AttributeIssues())

	badFigures := &CompanyRecord{Previous: fullFiling(2017, math.NaN()), Current: fullFiling(2018, 2)}
	assert.Equal(t, []string{"invalid figures for 2017"}, badFigures.FigureIssues())
	assert.Contains(t, badFigures.AttributeIssues(), "invalid figures for 2017")

	oneYear := &CompanyRecord{Current: fullFiling(2018, 2)}
	assert.Equal(t, []string{"missing fiscal year"}, oneYear.ReportIssues())
}

func TestIncomeRose(t *testing.T) {
	base := FinancialFigures{OperatingIncome: 10, OrdinaryIncome: 10}

	assert.True(t, IncomeRose(base, FinancialFigures{OperatingIncome: 11, OrdinaryIncome: 5}))
	assert.True(t, IncomeRose(base, FinancialFigures{OperatingIncome: 5, OrdinaryIncome: 11}))
	assert.False(t, IncomeRose(base, base))
}
