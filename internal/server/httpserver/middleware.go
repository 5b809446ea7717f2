package httpserver

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/server/httpserver/handler"
	"github.com/yndnr/userdir-go/internal/telemetry/logger"
)

// SessionTokenHeader carries the session token on authenticated requests.
const SessionTokenHeader = "X-Session-Token"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is
// the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestObserver records completed requests.
type RequestObserver interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// RequestID assigns a ULID request ID unless the client sent one.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" || len(requestID) > 128 {
				requestID = "req-" + ulid.Make().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession resolves the session token and stores the session in the
// request context. Unknown, missing or malformed tokens get 401, and a
// rejected directory mutation is reported to observer as unauthenticated.
// observer may be nil.
func RequireSession(sessions *service.SessionService, observer service.Observer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.ResolveSession(r.Context(), extractToken(r))
			if err != nil {
				if domain.IsUnauthenticated(err) {
					w.Header().Set("WWW-Authenticate", `Bearer realm="userdir"`)
					if op := mutationOp(r.Method); op != "" && observer != nil {
						observer.UserOp(op, service.ResultUnauth)
					}
				}
				handler.WriteServiceError(w, r, nil, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(handler.WithSession(r.Context(), session)))
		})
	}
}

// mutationOp maps a method on /users to its directory operation.
func mutationOp(method string) string {
	switch method {
	case http.MethodPost:
		return service.OpCreate
	case http.MethodPut:
		return service.OpUpdate
	case http.MethodDelete:
		return service.OpDelete
	default:
		return ""
	}
}

// extractToken reads X-Session-Token, falling back to Authorization: Bearer.
func extractToken(r *http.Request) string {
	if tok := strings.TrimSpace(r.Header.Get(SessionTokenHeader)); tok != "" {
		return tok
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// RateLimit applies a token bucket per client IP as resolved by proxies
// (nil keys on the TCP peer). Buckets idle for longer than limiterIdle are
// dropped.
func RateLimit(perSecond float64, burst int, proxies *TrustedProxies) Middleware {
	if burst <= 0 {
		burst = int(math.Ceil(perSecond))
	}
	if burst < 1 {
		burst = 1
	}
	limiters := newIPLimiters(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(proxies.ClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				handler.WriteError(w, r, http.StatusTooManyRequests,
					domain.ErrRateLimited.Code, domain.ErrRateLimited.Message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const limiterIdle = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	byIP      map[string]*ipLimiter
	lastSweep time.Time
}

func newIPLimiters(limit rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		limit:     limit,
		burst:     burst,
		byIP:      make(map[string]*ipLimiter),
		lastSweep: time.Now(),
	}
}

func (l *ipLimiters) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > limiterIdle {
		for k, v := range l.byIP {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(l.byIP, k)
			}
		}
		l.lastSweep = now
	}
	entry, ok := l.byIP[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byIP[ip] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Audit logs every request and reports it to obs when obs is non-nil.
// The logged client_ip is resolved through proxies.
func Audit(log *slog.Logger, obs RequestObserver, proxies *TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			if obs != nil {
				obs.ObserveRequest(r.Method, wrapped.statusCode, elapsed)
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", elapsed.Milliseconds(),
				"client_ip", proxies.ClientIP(r),
			}
			if identity, ok := handler.IdentityFromContext(r.Context()); ok {
				attrs = append(attrs, "identity", identity)
			}

			l := logger.L(r.Context(), log)
			switch {
			case wrapped.statusCode >= 500:
				l.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				l.Warn("request completed with client error", attrs...)
			default:
				l.Info("request completed", attrs...)
			}
		})
	}
}

// Recover turns a panic into a 500 envelope.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.L(r.Context(), log).Error("panic recovered",
						"error", rec,
						"path", r.URL.Path)
					handler.WriteError(w, r, http.StatusInternalServerError,
						domain.ErrInternalServer.Code, domain.ErrInternalServer.Message, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS adds Cross-Origin Resource Sharing headers for allowed origins.
// An empty list disables CORS headers entirely.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, "+SessionTokenHeader)
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Error-Code")
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(86400))

				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
