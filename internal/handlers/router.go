package handlers

import (
	"net/http"

	"github.com/anipix/anipix/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires every route with the shared middleware stack
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get(models.ProxyPath, h.HandleProxy)
	r.Head(models.ProxyPath, h.HandleProxy)

	r.Route("/api", func(r chi.Router) {
		r.Get("/bili-img", h.HandleProxy)
		r.Get("/images", h.HandleGallery)
		r.Get("/images/{title}", h.HandleImageDetail)
		r.Get("/search", h.HandleSearch)
		r.Get("/tags", h.HandleTags)
		r.Get("/random", h.HandleRandomView)
		r.Post("/random", h.HandleRandomize)
	})

	r.Get(models.PlaceholderPath, h.HandlePlaceholder)
	r.Get("/healthcheck", h.HandleHealthcheck)
	r.Handle("/metrics", h.metrics.Handler())

	return r
}
