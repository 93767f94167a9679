package domain

import (
	"encoding/json"
	"fmt"
)

// AttributeCategory is one of the twelve reader attribute dimensions.
type AttributeCategory string

const (
	CategoryAge              AttributeCategory = "age"
	CategoryCivilStatus      AttributeCategory = "civilstatus"
	CategoryEarnings         AttributeCategory = "earnings"
	CategoryGender           AttributeCategory = "gender"
	CategoryHabit            AttributeCategory = "habit"
	CategoryHobby            AttributeCategory = "hobby"
	CategoryKindOfBusiness   AttributeCategory = "kind_of_business"
	CategoryKindOfOccupation AttributeCategory = "kind_of_occupation"
	CategoryLocation         AttributeCategory = "location"
	CategoryMoving           AttributeCategory = "moving"
	CategoryOccupation       AttributeCategory = "occupation"
	CategoryPosition         AttributeCategory = "position"
)

// AllCategories lists every category in reporting order.
var AllCategories = []AttributeCategory{
	CategoryAge,
	CategoryCivilStatus,
	CategoryEarnings,
	CategoryGender,
	CategoryHabit,
	CategoryHobby,
	CategoryKindOfBusiness,
	CategoryKindOfOccupation,
	CategoryLocation,
	CategoryMoving,
	CategoryOccupation,
	CategoryPosition,
}

type categorySpec struct {
	multiValued bool
	topN        int
}

var categorySpecs = map[AttributeCategory]categorySpec{
	CategoryAge:              {multiValued: false, topN: 1},
	CategoryCivilStatus:      {multiValued: false, topN: 1},
	CategoryEarnings:         {multiValued: false, topN: 1},
	CategoryGender:           {multiValued: false, topN: 1},
	CategoryHabit:            {multiValued: true, topN: 1},
	CategoryHobby:            {multiValued: true, topN: 3},
	CategoryKindOfBusiness:   {multiValued: false, topN: 1},
	CategoryKindOfOccupation: {multiValued: false, topN: 1},
	CategoryLocation:         {multiValued: false, topN: 1},
	CategoryMoving:           {multiValued: true, topN: 1},
	CategoryOccupation:       {multiValued: false, topN: 1},
	CategoryPosition:         {multiValued: false, topN: 1},
}

// ParseCategory validates a category name.
func ParseCategory(name string) (AttributeCategory, error) {
	c := AttributeCategory(name)
	if !c.Valid() {
		return "", NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidCategory.Message, fmt.Errorf("%q", name))
	}
	return c, nil
}

// Valid reports whether c is one of the twelve categories.
func (c AttributeCategory) Valid() bool {
	_, ok := categorySpecs[c]
	return ok
}

// MultiValued reports whether one chunk may contribute several values.
func (c AttributeCategory) MultiValued() bool {
	return categorySpecs[c].multiValued
}

// TopN is how many values the projection keeps for this category.
func (c AttributeCategory) TopN() int {
	return categorySpecs[c].topN
}

// AttributeDistribution is the resolved per-category value distribution of one
// company-year. It is not modified after construction.
type AttributeDistribution struct {
	values map[AttributeCategory]*WeightedValues
}

// NewAttributeDistribution copies the given accumulators into a distribution. Every
// category is present; missing ones are empty.
func NewAttributeDistribution(values map[AttributeCategory]*WeightedValues) *AttributeDistribution {
	d := &AttributeDistribution{values: make(map[AttributeCategory]*WeightedValues, len(AllCategories))}
	for _, c := range AllCategories {
		if v, ok := values[c]; ok && v != nil {
			d.values[c] = v.Clone()
		} else {
			d.values[c] = &WeightedValues{}
		}
	}
	return d
}

// Values returns a copy of the accumulated values of a category.
func (d *AttributeDistribution) Values(c AttributeCategory) []WeightedValue {
	v, ok := d.values[c]
	if !ok {
		return nil
	}
	return v.Entries()
}

// Top projects a category to its highest-weighted value(s).
func (d *AttributeDistribution) Top(c AttributeCategory) []string {
	v, ok := d.values[c]
	if !ok {
		return nil
	}
	top := v.Top(c.TopN())
	out := make([]string, 0, len(top))
	for _, e := range top {
		out = append(out, e.Label)
	}
	return out
}

// Record returns the persisted shape: category name -> ordered value weights.
func (d *AttributeDistribution) Record() map[string]*WeightedValues {
	out := make(map[string]*WeightedValues, len(AllCategories))
	for _, c := range AllCategories {
		out[string(c)] = d.values[c].Clone()
	}
	return out
}

// MarshalJSON writes the persisted record shape.
func (d *AttributeDistribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Record())
}

// DistributionFromRecord rebuilds a distribution from its persisted shape. All twelve
// categories must be present.
func DistributionFromRecord(record map[string]*WeightedValues) (*AttributeDistribution, error) {
	values := make(map[AttributeCategory]*WeightedValues, len(AllCategories))
	for _, c := range AllCategories {
		v, ok := record[string(c)]
		if !ok {
			return nil, NewDomainErrorWithCause(ErrCodeMalformed, ErrMalformedRecord.Message,
				fmt.Errorf("category %q missing", c))
		}
		values[c] = v
	}
	return NewAttributeDistribution(values), nil
}

// ScreenRule selects companies by their projected attribute values. A company passes
// when, for every Require entry, at least one listed value is among its top values, and
// for every Exclude entry none of the listed values is.
type ScreenRule struct {
	Require map[AttributeCategory][]string `json:"require,omitempty"`
	Exclude map[AttributeCategory][]string `json:"exclude,omitempty"`
}

// Validate rejects rules that name unknown categories or nothing at all.
func (r ScreenRule) Validate() error {
	if len(r.Require) == 0 && len(r.Exclude) == 0 {
		return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidScreenRule.Message, fmt.Errorf("empty rule"))
	}
	for _, m := range []map[AttributeCategory][]string{r.Require, r.Exclude} {
		for c := range m {
			if !c.Valid() {
				return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidCategory.Message, fmt.Errorf("%q", c))
			}
		}
	}
	return nil
}

// DefaultScreenRule is the promising-company screen: Kanto readers with low
// earnings who like fortune telling but not sport.
func DefaultScreenRule() ScreenRule {
	return ScreenRule{
		Require: map[AttributeCategory][]string{
			CategoryLocation: {"関東"},
			CategoryEarnings: {"-1M", "1M-3M"},
			CategoryHobby:    {"FORTUNE"},
		},
		Exclude: map[AttributeCategory][]string{
			CategoryHobby: {"SPORT"},
		},
	}
}

// Match evaluates the rule against a distribution.
func (r ScreenRule) Match(d *AttributeDistribution) bool {
	for c, wanted := range r.Require {
		if !containsAny(d.Top(c), wanted) {
			return false
		}
	}
	for c, banned := range r.Exclude {
		if containsAny(d.Top(c), banned) {
			return false
		}
	}
	return true
}

func containsAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
