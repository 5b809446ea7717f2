package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready. The directory is loaded before the listener
// opens, so a running server is ready until it starts draining.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.draining() {
		h.handleServiceError(w, r, domain.ErrServiceUnavailable.WithDetails("shutting down"))
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ready",
		"users":  h.directory.Len(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
