package domain

// SectionDigest is the outcome of comparing one narrative section across two years.
type SectionDigest struct {
	Section    Section
	Similarity float64
	Changed    bool
	Summary    string
}

// CompanyReport is the data behind one company's year-over-year report.
type CompanyReport struct {
	Name     string
	Year     int
	Previous FinancialFigures
	Current  FinancialFigures

	Digests []SectionDigest

	Sentiment    SentimentTotals
	Contradicted bool
	// FinanceOriginal is set when the sentiment contradicts the income trend.
	FinanceOriginal string
	FinanceSummary  string

	ResearchKeywords []NamedEntity
	ResearchSummary  string
}

// IncomeRose reports whether operating or ordinary income grew.
func IncomeRose(previous, current FinancialFigures) bool {
	return current.OperatingIncome > previous.OperatingIncome ||
		current.OrdinaryIncome > previous.OrdinaryIncome
}
