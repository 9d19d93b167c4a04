package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi router with middleware and all routes.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Slot management. Trailing-slash forms are kept for compatibility with
	// existing booking frontends.
	r.Post("/slots/", s.handleCreateSlot)
	r.Get("/slots/", s.handleListSlots)
	r.Get("/slots/{date}", s.handleListSlotsByDate)
	r.Delete("/slots/{id}", s.handleDeleteSlot)
	r.Delete("/slots_all/", s.handleDeleteAllSlots)

	// Booking
	r.Post("/book/{id}", s.handleBookSlot)

	// Auth
	r.Post("/login", s.handleLogin)

	// Live updates
	r.Get(s.wsCfg.Path, s.handleWebSocket)

	// Admin
	r.Get("/audit", s.handleAudit)

	// Operational
	r.Get("/health", s.handleHealth)

	return r
}

// handleHealth returns service liveness plus basic runtime details.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.version,
		"ws_clients": s.hub.ClientCount(),
	})
}
