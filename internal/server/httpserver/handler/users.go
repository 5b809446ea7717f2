package handler

import (
	"fmt"
	"net/http"
)

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.directory.List(r.Context()))
}

// GetUser handles GET /users/{index}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	loc, err := pathIndex(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	user, err := h.directory.Get(r.Context(), loc)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, user)
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req CreateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	user, err := h.directory.Create(r.Context(), identity, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, CreateUserResponse{
		Message: fmt.Sprintf("User '%s' with email '%s' created!", user.Username, user.Email),
		User:    user,
	})
}

// UpdateUser handles PUT /users/{index}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	loc, err := pathIndex(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	user, err := h.directory.Update(r.Context(), identity, loc, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{index}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	loc, err := pathIndex(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.directory.Delete(r.Context(), identity, loc); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
