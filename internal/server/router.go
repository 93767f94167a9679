package server

import (
	"net/http"

	"github.com/cloo-solutions/yuholens/internal/api"
	"github.com/cloo-solutions/yuholens/internal/api/handlers"
	"github.com/cloo-solutions/yuholens/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	APIToken       string
	CompanyHandler *handlers.CompanyHandler
	ScreenHandler  *handlers.ScreenHandler
	// RunHandler is optional; run history needs a database.
	RunHandler *handlers.RunHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(cfg.APIToken))

		r.Route("/years/{year}", func(r chi.Router) {
			r.Get("/companies", cfg.CompanyHandler.List)
			r.Get("/companies/{name}/attributes", cfg.CompanyHandler.Attributes)
			r.Get("/screen", cfg.ScreenHandler.Default)
			r.Post("/screen", cfg.ScreenHandler.Custom)
		})

		if cfg.RunHandler != nil {
			r.Route("/runs", func(r chi.Router) {
				r.Get("/", cfg.RunHandler.List)
				r.Get("/{id}", cfg.RunHandler.Get)
			})
		}
	})

	return r
}
