package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDistributionSource struct {
	mock.Mock
}

func (m *MockDistributionSource) Companies(ctx context.Context, year int) ([]string, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDistributionSource) Load(ctx context.Context, year int, company string) (*domain.AttributeDistribution, error) {
	args := m.Called(ctx, year, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttributeDistribution), args.Error(1)
}

func newCompanyRouter(source DistributionSource) http.Handler {
	h := NewCompanyHandler(source)
	r := chi.NewRouter()
	r.Get("/years/{year}/companies", h.List)
	r.Get("/years/{year}/companies/{name}/attributes", h.Attributes)
	return r
}

type pageBody struct {
	Data pagination.PageResult[string] `json:"data"`
}

func TestCompanyHandler_List(t *testing.T) {
	source := new(MockDistributionSource)
	source.On("Companies", mock.Anything, 2018).Return([]string{"A", "B", "C"}, nil)
	router := newCompanyRouter(source)

	req := httptest.NewRequest(http.MethodGet, "/years/2018/companies?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var first pageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, []string{"A", "B"}, first.Data.Items)
	assert.True(t, first.Data.HasMore)

	req = httptest.NewRequest(http.MethodGet, "/years/2018/companies?limit=2&cursor="+first.Data.Cursor, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var second pageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, []string{"C"}, second.Data.Items)
	assert.False(t, second.Data.HasMore)
}

func TestCompanyHandler_ListBadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad year", "/years/abc/companies", http.StatusBadRequest},
		{"bad limit", "/years/2018/companies?limit=x", http.StatusBadRequest},
		{"bad cursor", "/years/2018/companies?cursor=%25%25", http.StatusBadRequest},
		{"stale cursor", "/years/2018/companies?cursor=" + pagination.EncodeCursor("Z"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockDistributionSource)
			source.On("Companies", mock.Anything, 2018).Return([]string{"A"}, nil).Maybe()
			rec := httptest.NewRecorder()

			newCompanyRouter(source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCompanyHandler_ListSourceError(t *testing.T) {
	source := new(MockDistributionSource)
	source.On("Companies", mock.Anything, 2018).Return(nil, errors.New("connection refused"))
	rec := httptest.NewRecorder()

	newCompanyRouter(source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/years/2018/companies", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCompanyHandler_Attributes(t *testing.T) {
	d := domain.NewAttributeDistribution(map[domain.AttributeCategory]*domain.WeightedValues{
		domain.CategoryLocation: domain.NewWeightedValues(
			domain.WeightedValue{Label: "関東", Weight: 0.7},
			domain.WeightedValue{Label: "近畿", Weight: 0.3},
		),
	})
	source := new(MockDistributionSource)
	source.On("Load", mock.Anything, 2018, "トヨタ自動車").Return(d, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/years/2018/companies/"+"%E3%83%88%E3%83%A8%E3%82%BF%E8%87%AA%E5%8B%95%E8%BB%8A"+"/attributes", nil)
	newCompanyRouter(source).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Company      string                                `json:"company"`
			Year         int                                   `json:"year"`
			Distribution map[string]map[string]float64         `json:"distribution"`
			Top          map[domain.AttributeCategory][]string `json:"top"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "トヨタ自動車", body.Data.Company)
	assert.Equal(t, 2018, body.Data.Year)
	assert.Len(t, body.Data.Distribution, len(domain.AllCategories))
	assert.InDelta(t, 0.7, body.Data.Distribution["location"]["関東"], 1e-9)
	assert.Equal(t, map[domain.AttributeCategory][]string{domain.CategoryLocation: {"関東"}}, body.Data.Top)
}

func TestCompanyHandler_AttributesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not stored", domain.ErrDistributionNotFound, http.StatusNotFound},
		{"malformed", domain.ErrMalformedRecord, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockDistributionSource)
			source.On("Load", mock.Anything, 2018, "X").Return(nil, tt.err)
			rec := httptest.NewRecorder()

			newCompanyRouter(source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/years/2018/companies/X/attributes", nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
