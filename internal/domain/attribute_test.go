package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDistribution(values map[AttributeCategory][]WeightedValue) *AttributeDistribution {
	acc := make(map[AttributeCategory]*WeightedValues, len(values))
	for c, v := range values {
		acc[c] = NewWeightedValues(v...)
	}
	return NewAttributeDistribution(acc)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("kind_of_business")
	require.NoError(t, err)
	assert.Equal(t, CategoryKindOfBusiness, c)

	_, err = ParseCategory("blood_type")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCategorySpecs(t *testing.T) {
	assert.Len(t, AllCategories, 12)
	for _, c := range AllCategories {
		assert.True(t, c.Valid(), c)
	}
	assert.Equal(t, 3, CategoryHobby.TopN())
	assert.True(t, CategoryHabit.MultiValued())
	assert.True(t, CategoryMoving.MultiValued())
	assert.False(t, CategoryGender.MultiValued())
	assert.Equal(t, 1, CategoryGender.TopN())
}

func TestAttributeDistribution_EveryCategoryPresent(t *testing.T) {
	d := testDistribution(map[AttributeCategory][]WeightedValue{
		CategoryAge: {{Label: "30-39", Weight: 0.6}, {Label: "40-49", Weight: 0.4}},
	})

	assert.Equal(t, []string{"30-39"}, d.Top(CategoryAge))
	assert.Empty(t, d.Top(CategoryGender))
	assert.Len(t, d.Record(), len(AllCategories))
}

func TestAttributeDistribution_NotAliased(t *testing.T) {
	acc := NewWeightedValues(WeightedValue{Label: "関東", Weight: 0.5})
	d := NewAttributeDistribution(map[AttributeCategory]*WeightedValues{CategoryLocation: acc})

	acc.Add("近畿", 0.9)
	d.Record()[string(CategoryLocation)].Add("九州", 1)

	assert.Equal(t, []string{"関東"}, d.Top(CategoryLocation))
}

func TestDistributionFromRecord(t *testing.T) {
	d := testDistribution(map[AttributeCategory][]WeightedValue{
		CategoryOccupation: {{Label: "公務員", Weight: 0.5}, {Label: "会社員", Weight: 0.5}},
	})
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var record map[string]*WeightedValues
	require.NoError(t, json.Unmarshal(data, &record))
	restored, err := DistributionFromRecord(record)

	require.NoError(t, err)
	assert.Equal(t, []string{"公務員"}, restored.Top(CategoryOccupation))

	delete(record, string(CategoryHabit))
	_, err = DistributionFromRecord(record)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestScreenRule_Validate(t *testing.T) {
	assert.NoError(t, DefaultScreenRule().Validate())
	assert.ErrorIs(t, ScreenRule{}.Validate(), ErrInvalidScreenRule)
	assert.ErrorIs(t, ScreenRule{
		Exclude: map[AttributeCategory][]string{"shoe_size": {"27"}},
	}.Validate(), ErrInvalidCategory)
}

func TestScreenRule_Match(t *testing.T) {
	rule := DefaultScreenRule()

	tests := []struct {
		name string
		d    *AttributeDistribution
		want bool
	}{
		{
			name: "promising",
			d: testDistribution(map[AttributeCategory][]WeightedValue{
				CategoryLocation: {{Label: "関東", Weight: 0.6}},
				CategoryEarnings: {{Label: "1M-3M", Weight: 0.6}},
				CategoryHobby:    {{Label: "FORTUNE", Weight: 0.4}, {Label: "COOKING", Weight: 0.3}},
			}),
			want: true,
		},
		{
			name: "sport in top three",
			d: testDistribution(map[AttributeCategory][]WeightedValue{
				CategoryLocation: {{Label: "関東", Weight: 0.6}},
				CategoryEarnings: {{Label: "-1M", Weight: 0.6}},
				CategoryHobby: {
					{Label: "FORTUNE", Weight: 0.4},
					{Label: "COOKING", Weight: 0.3},
					{Label: "SPORT", Weight: 0.2},
				},
			}),
			want: false,
		},
		{
			name: "sport outside top three",
			d: testDistribution(map[AttributeCategory][]WeightedValue{
				CategoryLocation: {{Label: "関東", Weight: 0.6}},
				CategoryEarnings: {{Label: "-1M", Weight: 0.6}},
				CategoryHobby: {
					{Label: "FORTUNE", Weight: 0.4},
					{Label: "COOKING", Weight: 0.3},
					{Label: "TRAVEL", Weight: 0.25},
					{Label: "SPORT", Weight: 0.2},
				},
			}),
			want: true,
		},
		{
			name: "high earnings",
			d: testDistribution(map[AttributeCategory][]WeightedValue{
				CategoryLocation: {{Label: "関東", Weight: 0.6}},
				CategoryEarnings: {{Label: "10M-", Weight: 0.6}},
				CategoryHobby:    {{Label: "FORTUNE", Weight: 0.4}},
			}),
			want: false,
		},
		{
			name: "empty",
			d:    testDistribution(nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Match(tt.d))
		})
	}
}
