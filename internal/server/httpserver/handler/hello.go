package handler

import (
	"fmt"
	"net/http"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HelloResponse{Message: "Hello from userdir!"})
}

// Greet handles GET /greet?name=. The reply is plain text.
func (h *Handler) Greet(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("name") {
		h.handleServiceError(w, r, domain.ErrMissingArgument.WithDetails("query parameter name is required"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello %s", r.URL.Query().Get("name"))
}
