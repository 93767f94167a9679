package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDistribution(values map[domain.AttributeCategory][]domain.WeightedValue) *domain.AttributeDistribution {
	acc := make(map[domain.AttributeCategory]*domain.WeightedValues, len(values))
	for c, v := range values {
		acc[c] = domain.NewWeightedValues(v...)
	}
	return domain.NewAttributeDistribution(acc)
}

func TestRecordStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(storage.NewDirBucket(t.TempDir()))

	tied := testDistribution(map[domain.AttributeCategory][]domain.WeightedValue{
		domain.CategoryOccupation: {{Label: "公務員", Weight: 0.5}, {Label: "会社員", Weight: 0.5}},
		domain.CategoryHobby:      {{Label: "TRAVEL", Weight: 0.4}, {Label: "FORTUNE", Weight: 0.9}},
	})
	require.NoError(t, store.Save(ctx, 2018, "ソニー", tied))
	require.NoError(t, store.Save(ctx, 2018, "トヨタ", testDistribution(nil)))

	got, err := store.Load(ctx, 2018, "ソニー")
	require.NoError(t, err)

	// value order survives the round trip, so the tie still breaks the same way
	assert.Equal(t, []string{"公務員"}, got.Top(domain.CategoryOccupation))
	assert.Equal(t, tied.Values(domain.CategoryHobby), got.Values(domain.CategoryHobby))

	names, err := store.Companies(ctx, 2018)
	require.NoError(t, err)
	assert.Equal(t, []string{"ソニー", "トヨタ"}, names)
}

func TestRecordStore_ReplaceKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(storage.NewDirBucket(t.TempDir()))

	require.NoError(t, store.Save(ctx, 2017, "A", testDistribution(nil)))
	require.NoError(t, store.Save(ctx, 2017, "B", testDistribution(nil)))
	require.NoError(t, store.Save(ctx, 2017, "A", testDistribution(map[domain.AttributeCategory][]domain.WeightedValue{
		domain.CategoryGender: {{Label: "女性", Weight: 1}},
	})))

	names, err := store.Companies(ctx, 2017)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	a, err := store.Load(ctx, 2017, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"女性"}, a.Top(domain.CategoryGender))
}

func TestRecordStore_Misses(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(storage.NewDirBucket(t.TempDir()))

	names, err := store.Companies(ctx, 2016)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Load(ctx, 2016, "X")
	assert.ErrorIs(t, err, domain.ErrDistributionNotFound)
}

func TestRecordStore_MalformedEntries(t *testing.T) {
	ctx := context.Background()
	bucket := storage.NewDirBucket(t.TempDir())
	store := NewRecordStore(bucket)

	var full strings.Builder
	full.WriteString(`{"partial": {"age": {"30-39": 1}}, "full": {`)
	for i, c := range domain.AllCategories {
		if i > 0 {
			full.WriteString(",")
		}
		full.WriteString(`"` + string(c) + `": {}`)
	}
	full.WriteString("}}")
	require.NoError(t, bucket.Put(ctx, recordKey(2018), []byte(full.String()), "application/json"))

	_, err := store.Load(ctx, 2018, "partial")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)

	d, err := store.Load(ctx, 2018, "full")
	require.NoError(t, err)
	assert.Empty(t, d.Top(domain.CategoryAge))

	require.NoError(t, bucket.Put(ctx, recordKey(2019), []byte(`[1, 2]`), "application/json"))
	_, err = store.Companies(ctx, 2019)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestRecordStore_Digest(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(storage.NewDirBucket(t.TempDir()))

	empty, err := store.Digest(ctx, 2018)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Save(ctx, 2018, "A", testDistribution(nil)))
	first, err := store.Digest(ctx, 2018)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	again, err := store.Digest(ctx, 2018)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, store.Save(ctx, 2018, "B", testDistribution(nil)))
	changed, err := store.Digest(ctx, 2018)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}
