package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Mount registers the service routes. The API is served at the root and
// under /api and /api/v1 so existing frontends keep working.
func Mount(r chi.Router, h *Handler, ah *AnalyzeHandler) {
	r.Get("/health", h.HealthCheck)

	api := func(r chi.Router) {
		r.Get("/stats", h.GetStats)
		r.Get("/compare", h.Compare)
		r.Get("/teams", h.GetTeams)
		r.Get("/categories", h.GetCategories)
		r.Post("/analyze", ah.Analyze)
	}

	r.Group(api)
	r.Route("/api", api)
	r.Route("/api/v1", api)
}
