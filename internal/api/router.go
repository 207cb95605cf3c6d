package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/history", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Query routes, wrapped by platform auth when injected
		r.Group(func(r chi.Router) {
			if s.auth != nil {
				r.Use(s.auth)
			}

			r.Get("/query/{entityID}", s.handleQuery)
		})
	})

	return r
}

// handleHealth returns the server health status including the backend
// connection state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "unconfigured"
	if s.backend != nil {
		backend = "ok"
		if err := s.backend.HealthCheck(r.Context()); err != nil {
			backend = "unavailable"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"backend": backend,
	})
}
