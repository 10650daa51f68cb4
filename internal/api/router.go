package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/hollis-dev/attic/internal/assembly"
	"github.com/hollis-dev/attic/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(db *store.DB, svc *assembly.Service, apiKey string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(db)
	sessionH := NewSessionHandler(svc)
	recordH := NewRecordHandler(svc)
	contextH := NewContextHandler(svc)

	// Unauthenticated routes
	r.Get("/health", healthH.Health)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/sessions/{id}/messages", func(r chi.Router) {
			r.Get("/", sessionH.ListMessages)
			r.Post("/", sessionH.LogMessage)
		})

		r.Route("/memories", func(r chi.Router) {
			r.Get("/", recordH.ListMemories)
			r.Post("/", recordH.StoreMemory)
		})

		r.Route("/learnings", func(r chi.Router) {
			r.Get("/", recordH.ListLearnings)
			r.Post("/", recordH.StoreLearning)
		})

		r.Route("/entities", func(r chi.Router) {
			r.Get("/", recordH.ListEntities)
			r.Post("/", recordH.TrackEntity)
		})

		r.Route("/context", func(r chi.Router) {
			r.Post("/build", contextH.Build)
			r.Get("/budget", contextH.Budget)
		})
	})

	return r
}
