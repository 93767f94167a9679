package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/yuholens/internal/api"
	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/service"
)

// Screener runs a screen over a year's stored distributions.
type Screener interface {
	Screen(ctx context.Context, year int, rule domain.ScreenRule) ([]service.ScreenMatch, error)
}

type ScreenHandler struct {
	screener Screener
}

func NewScreenHandler(screener Screener) *ScreenHandler {
	return &ScreenHandler{screener: screener}
}

// ScreenResponse lists the matching companies with the rule that selected them.
type ScreenResponse struct {
	Year    int                   `json:"year"`
	Rule    domain.ScreenRule     `json:"rule"`
	Matches []service.ScreenMatch `json:"matches"`
}

// Default screens with the promising-company rule.
func (h *ScreenHandler) Default(w http.ResponseWriter, r *http.Request) {
	h.screen(w, r, domain.DefaultScreenRule())
}

// Custom screens with a rule posted in the request body.
func (h *ScreenHandler) Custom(w http.ResponseWriter, r *http.Request) {
	var rule domain.ScreenRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := rule.Validate(); err != nil {
		api.HandleError(w, err)
		return
	}
	h.screen(w, r, rule)
}

func (h *ScreenHandler) screen(w http.ResponseWriter, r *http.Request, rule domain.ScreenRule) {
	year, err := yearParam(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	matches, err := h.screener.Screen(r.Context(), year, rule)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ScreenResponse{Year: year, Rule: rule, Matches: matches})
}
