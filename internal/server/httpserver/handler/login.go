package handler

import (
	"net/http"
	"time"
)

// Login handles POST /login. Any username is accepted as-is, including an
// empty one; no credential is checked. Only an undecodable body fails.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.sessions.Mint(r.Context(), req.Username)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, LoginResponse{
		Token:     resp.Token,
		SessionID: resp.SessionID,
		Identity:  resp.Identity,
		CreatedAt: time.UnixMilli(resp.CreatedAt).UTC(),
	})
}
