package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/telemetry/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the directory API.
type Handler struct {
	directory *service.DirectoryService
	sessions  *service.SessionService
	logger    *slog.Logger
	started   time.Time
	draining  func() bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithDraining makes /ready report 503 while fn returns true.
func WithDraining(fn func() bool) Option {
	return func(h *Handler) {
		if fn != nil {
			h.draining = fn
		}
	}
}

// New creates a Handler.
func New(directory *service.DirectoryService, sessions *service.SessionService, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		directory: directory,
		sessions:  sessions,
		logger:    logger,
		started:   time.Now(),
		draining:  func() bool { return false },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ============================================================================
// Identity context
// ============================================================================

type (
	identityKey struct{}
	sessionKey  struct{}
)

// WithIdentity stores the resolved session identity in ctx.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey{}).(string)
	return identity, ok
}

// WithSession stores the resolved session and its identity in ctx.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	ctx = WithIdentity(ctx, session.Identity)
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by WithSession.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return session, ok
}

// ============================================================================
// Response helpers
// ============================================================================

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes an error envelope. Middleware uses it as well.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}

// WriteServiceError converts err to an error envelope.
func WriteServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		logger.L(r.Context(), log).Error("internal error", "error", err)
		WriteError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, domain.ErrInternalServer.Message, nil)
		return
	}

	status := ErrorCodeToHTTPStatus(de.Code)
	if status >= http.StatusInternalServerError {
		logger.L(r.Context(), log).Error("request failed", "code", de.Code, "error", err)
	}

	var details any
	if de.Details != "" {
		details = de.Details
	}
	WriteError(w, r, status, de.Code, de.Message, details)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	WriteServiceError(w, r, h.logger, err)
}

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "UD-AUTH-401"), code == domain.ErrTokenMalformed.Code:
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "UD-ARG-"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrBadRequest.WithDetails("invalid request body: " + err.Error())
	}
	return nil
}

// pathIndex parses the {index} path value.
func pathIndex(r *http.Request) (domain.IndexLocator, error) {
	raw := r.PathValue("index")
	if raw == "" {
		return 0, domain.ErrMissingArgument.WithDetails("index is required")
	}
	return domain.ParseIndex(raw)
}

// identity returns the identity placed in the context by the session
// middleware. Its absence means the route was registered without it.
func (h *Handler) identity(r *http.Request) (string, error) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return "", domain.ErrTokenMissing
	}
	return identity, nil
}
