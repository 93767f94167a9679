// Package filing reads annual-report figures and narrative sections from the filing
// archive.
package filing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// Index columns.
const (
	colSecCode                = "sec_code"
	colFilerName              = "filer_name"
	colFiscalYear             = "fiscal_year"
	colNetSales               = "net_sales"
	colOperatingIncome        = "operating_income"
	colOrdinaryIncome         = "ordinary_income"
	colProfit                 = "profit"
	colOperatingIncomeOnSales = "operating_income_on_sales"
	colOrdinaryIncomeOnSales  = "ordinary_income_on_sales"
	colCapitalRatio           = "capital_ratio"
	colDocID                  = "doc_id"
)

var requiredColumns = []string{colSecCode, colFilerName, colDocID}

// Entry is one row of a year's document index.
type Entry struct {
	Code       int
	Name       string
	FiscalYear string
	DocID      string
	Figures    domain.FinancialFigures
}

// Index maps five-digit security codes to index entries.
type Index struct {
	entries map[int]Entry
	order   []int
}

// Lookup returns the entry of a security code.
func (idx *Index) Lookup(code int) (Entry, bool) {
	e, ok := idx.entries[code]
	return e, ok
}

// Codes returns the indexed codes in file order.
func (idx *Index) Codes() []int {
	out := make([]int, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len returns the number of indexed companies.
func (idx *Index) Len() int {
	return len(idx.order)
}

// ParseIndex reads a tab-separated document index with a header row. When a code
// appears more than once the first row wins. Rows without a usable sec_code (funds,
// unlisted filers) are skipped. Unparseable numbers are NaN.
func ParseIndex(r io.Reader) (*Index, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed("empty index")
	}
	if err != nil {
		return nil, malformed(err.Error())
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, malformed(fmt.Sprintf("missing column %q", name))
		}
	}

	idx := &Index{entries: make(map[int]Entry)}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, malformed(fmt.Sprintf("line %d: %v", line, err))
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		code, err := parseCode(field(colSecCode))
		if err != nil {
			log.Printf("filing: index line %d skipped: %v (%s)", line, err, field(colFilerName))
			continue
		}
		if _, dup := idx.entries[code]; dup {
			continue
		}

		idx.entries[code] = Entry{
			Code:       code,
			Name:       field(colFilerName),
			FiscalYear: field(colFiscalYear),
			DocID:      field(colDocID),
			Figures: domain.FinancialFigures{
				NetSales:               parseNumber(field(colNetSales)),
				OperatingIncome:        parseNumber(field(colOperatingIncome)),
				OrdinaryIncome:         parseNumber(field(colOrdinaryIncome)),
				Profit:                 parseNumber(field(colProfit)),
				OperatingIncomeOnSales: parseNumber(field(colOperatingIncomeOnSales)),
				OrdinaryIncomeOnSales:  parseNumber(field(colOrdinaryIncomeOnSales)),
				CapitalRatio:           parseNumber(field(colCapitalRatio)),
			},
		}
		idx.order = append(idx.order, code)
	}
	return idx, nil
}

func parseCode(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid sec_code %q", s)
	}
	return int(v), nil
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func malformed(reason string) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeMalformed, domain.ErrMalformedIndex.Message, errors.New(reason))
}
