package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// YearRange is a flag value of the form "2018" or "2016-2018".
type YearRange struct {
	From int
	To   int
}

var _ pflag.Value = (*YearRange)(nil)

func (y *YearRange) String() string {
	if y.From == 0 {
		return ""
	}
	if y.From == y.To {
		return strconv.Itoa(y.From)
	}
	return fmt.Sprintf("%d-%d", y.From, y.To)
}

func (y *YearRange) Set(s string) error {
	first, last, isRange := strings.Cut(strings.TrimSpace(s), "-")
	from, err := strconv.Atoi(first)
	if err != nil {
		return fmt.Errorf("invalid year %q", first)
	}
	to := from
	if isRange {
		if to, err = strconv.Atoi(last); err != nil {
			return fmt.Errorf("invalid year %q", last)
		}
	}
	if from <= 0 || to < from {
		return fmt.Errorf("invalid year range %q", s)
	}
	y.From, y.To = from, to
	return nil
}

func (y *YearRange) Type() string {
	return "years"
}

// Years lists the range, or just fallback when the flag was not set.
func (y *YearRange) Years(fallback int) []int {
	if y.From == 0 {
		return []int{fallback}
	}
	years := make([]int, 0, y.To-y.From+1)
	for year := y.From; year <= y.To; year++ {
		years = append(years, year)
	}
	return years
}

// AddYearFlag registers --year on flags.
func AddYearFlag(flags *pflag.FlagSet, y *YearRange) {
	flags.VarP(y, "year", "y", "Fiscal year or range, e.g. 2018 or 2016-2018 (default: target year)")
}
