package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/yuholens/internal/api"
	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/pagination"
	"github.com/go-chi/chi/v5"
)

// DistributionSource lists and loads stored attribute distributions.
type DistributionSource interface {
	Companies(ctx context.Context, year int) ([]string, error)
	Load(ctx context.Context, year int, company string) (*domain.AttributeDistribution, error)
}

type CompanyHandler struct {
	source DistributionSource
}

func NewCompanyHandler(source DistributionSource) *CompanyHandler {
	return &CompanyHandler{source: source}
}

// AttributesResponse is the stored distribution of one company.
type AttributesResponse struct {
	Company      string                                `json:"company"`
	Year         int                                   `json:"year"`
	Distribution *domain.AttributeDistribution         `json:"distribution"`
	Top          map[domain.AttributeCategory][]string `json:"top"`
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	companies, err := h.source.Companies(r.Context(), year)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	page, err := pagination.Page(companies, cursor, limit)
	if errors.Is(err, pagination.ErrInvalidCursor) {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, page)
}

func (h *CompanyHandler) Attributes(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "company name is required")
		return
	}

	d, err := h.source.Load(r.Context(), year, name)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	top := make(map[domain.AttributeCategory][]string, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		if values := d.Top(c); len(values) > 0 {
			top[c] = values
		}
	}

	api.Success(w, http.StatusOK, AttributesResponse{
		Company:      name,
		Year:         year,
		Distribution: d,
		Top:          top,
	})
}
