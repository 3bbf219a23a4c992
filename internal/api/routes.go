package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Route("/knowledge", func(r chi.Router) {
				r.Post("/", h.CreateEntry)
				r.Get("/", h.ListEntries)
				r.Post("/retrieve", h.Retrieve)
				r.Post("/context", h.BuildContext)
				r.Post("/usage", h.RecordUsage)
				r.Patch("/usage/{id}", h.UpdateUsageFeedback)
				r.Get("/{id}", h.GetEntry)
				r.Patch("/{id}", h.UpdateEntry)
				r.Delete("/{id}", h.ArchiveEntry)
				r.Get("/{id}/history", h.GetHistory)
				r.Post("/{id}/review", h.ReviewEntry)
			})

			r.Route("/learn", func(r chi.Router) {
				r.Post("/log", h.LearnFromLog)
				r.Post("/test-failure", h.LearnFromTestFailure)
			})
		})
	})

	return r
}
