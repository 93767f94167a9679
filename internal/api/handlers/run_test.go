package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisRun), args.Error(1)
}

func (m *MockRunRepository) Recent(ctx context.Context, limit int) ([]*domain.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnalysisRun), args.Error(1)
}

func newRunRouter(repo RunRepository) http.Handler {
	h := NewRunHandler(repo)
	r := chi.NewRouter()
	r.Get("/runs", h.List)
	r.Get("/runs/{id}", h.Get)
	return r
}

func TestRunHandler_List(t *testing.T) {
	repo := new(MockRunRepository)
	repo.On("Recent", mock.Anything, 5).Return([]*domain.AnalysisRun{
		{ID: "r1", Kind: "report", Year: 2018, Status: domain.RunStatusCompleted, StartedAt: time.Now()},
	}, nil)

	rec := httptest.NewRecorder()
	newRunRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []domain.AnalysisRun `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, domain.RunStatusCompleted, body.Data[0].Status)
}

func TestRunHandler_ListEmpty(t *testing.T) {
	repo := new(MockRunRepository)
	repo.On("Recent", mock.Anything, defaultRunLimit).Return(nil, nil)

	rec := httptest.NewRecorder()
	newRunRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestRunHandler_ListInvalidLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	newRunRouter(new(MockRunRepository)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandler_Get(t *testing.T) {
	id := "6f1c2f8e-3b0a-4d8e-9a51-0d9c1e1b2a10"
	repo := new(MockRunRepository)
	repo.On("GetByID", mock.Anything, id).Return(&domain.AnalysisRun{ID: id, Status: domain.RunStatusFailed, Error: "timeout"}, nil)

	rec := httptest.NewRecorder()
	newRunRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+id, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"timeout"`)
}

func TestRunHandler_GetNotFound(t *testing.T) {
	repo := new(MockRunRepository)

	rec := httptest.NewRecorder()
	newRunRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
