package domain

// Cohort names used by the income-change classification.
const (
	CohortProfitable   = "profitable"
	CohortUnprofitable = "unprofitable"
)

// CompanyAnalysis is a company with its resolved attribute distribution.
type CompanyAnalysis struct {
	Record     *CompanyRecord
	Attributes *AttributeDistribution
}

// Name returns the filer name.
func (a CompanyAnalysis) Name() string {
	return a.Record.Name
}

// Cohort is an insertion-ordered group of companies sharing a classification.
type Cohort struct {
	Name      string
	Companies []CompanyAnalysis
}

// Size is the number of member companies.
func (c Cohort) Size() int {
	return len(c.Companies)
}

// FrequencyTable counts, per category, how many cohort members have each top value.
type FrequencyTable struct {
	Cohort string                             `json:"cohort"`
	Size   int                                `json:"size"`
	Counts map[AttributeCategory]*ValueCounts `json:"counts"`
}

// NewFrequencyTable returns a table with an empty tally for every category.
func NewFrequencyTable(cohort string, size int) FrequencyTable {
	counts := make(map[AttributeCategory]*ValueCounts, len(AllCategories))
	for _, c := range AllCategories {
		counts[c] = &ValueCounts{}
	}
	return FrequencyTable{Cohort: cohort, Size: size, Counts: counts}
}

// Category returns the tally of one category.
func (t FrequencyTable) Category(c AttributeCategory) []ValueCount {
	v, ok := t.Counts[c]
	if !ok {
		return nil
	}
	return v.Entries()
}
