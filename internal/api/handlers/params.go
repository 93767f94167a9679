package handlers

import (
	"net/http"
	"strconv"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/go-chi/chi/v5"
)

func yearParam(r *http.Request) (int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		return 0, domain.ErrInvalidYear
	}
	return year, nil
}
