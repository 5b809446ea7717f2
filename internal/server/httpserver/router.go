package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Directory *service.DirectoryService
	Sessions  *service.SessionService

	Logger *slog.Logger

	// Metrics serves /metrics. Nil leaves the route unregistered.
	Metrics http.Handler
	// Observer receives per-request metrics. May be nil.
	Observer RequestObserver
	// Events receives directory outcomes decided before the service is
	// reached, such as a mutation without a valid session. May be nil.
	Events service.Observer

	// Draining reports that shutdown has begun; /ready then returns 503.
	// May be nil.
	Draining func() bool

	// CORSAllowedOrigins lists allowed origins. Empty disables CORS.
	CORSAllowedOrigins []string

	// RateLimit is requests per second per client IP. Zero disables it.
	RateLimit float64
	RateBurst int

	// TrustedProxies are the peers whose X-Forwarded-For is believed when
	// keying the rate limiter and logging. Nil trusts nobody.
	TrustedProxies *TrustedProxies
}

// NewRouter builds the route table and wraps it in the middleware chain:
// RequestID -> Audit -> Recover -> CORS -> RateLimit -> routes.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.Directory, cfg.Sessions, log, handler.WithDraining(cfg.Draining))
	authed := RequireSession(cfg.Sessions, cfg.Events)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /greet", h.Greet)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.HandleFunc("GET /status", h.Status)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	mux.HandleFunc("POST /login", h.Login)
	mux.Handle("GET /session", authed(http.HandlerFunc(h.Session)))

	mux.HandleFunc("GET /users", h.ListUsers)
	mux.HandleFunc("GET /users/{index}", h.GetUser)
	mux.Handle("POST /users", authed(http.HandlerFunc(h.CreateUser)))
	mux.Handle("PUT /users/{index}", authed(http.HandlerFunc(h.UpdateUser)))
	mux.Handle("DELETE /users/{index}", authed(http.HandlerFunc(h.DeleteUser)))

	middlewares := []Middleware{
		RequestID(),
		Audit(log, cfg.Observer, cfg.TrustedProxies),
		Recover(log),
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		middlewares = append(middlewares, CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.TrustedProxies))
	}

	return Chain(mux, middlewares...)
}
