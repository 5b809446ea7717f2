package handler

import (
	"net/http"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// Session handles GET /session: the caller's own session and how many
// sessions its identity holds.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.handleServiceError(w, r, domain.ErrTokenMissing)
		return
	}

	all, err := h.sessions.ListByIdentity(r.Context(), session.Identity)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, SessionResponse{
		Identity:         session.Identity,
		SessionID:        session.ID,
		CreatedAt:        session.CreatedAtTime().UTC(),
		IdentitySessions: len(all),
	})
}
