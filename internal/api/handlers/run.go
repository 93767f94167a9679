package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/yuholens/internal/api"
	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultRunLimit = 20

type RunRepository interface {
	GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error)
	Recent(ctx context.Context, limit int) ([]*domain.AnalysisRun, error)
}

type RunHandler struct {
	repo RunRepository
}

func NewRunHandler(repo RunRepository) *RunHandler {
	return &RunHandler{repo: repo}
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if runs == nil {
		runs = []*domain.AnalysisRun{}
	}

	api.Success(w, http.StatusOK, runs)
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		api.HandleError(w, domain.ErrRunNotFound)
		return
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, run)
}
