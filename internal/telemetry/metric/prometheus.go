package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "userdir"

// Registry owns a private Prometheus registry and the directory's metrics.
type Registry struct {
	reg *prometheus.Registry

	UserOps         *prometheus.CounterVec
	Logins          prometheus.Counter
	Resolves        *prometheus.CounterVec
	PersistDuration prometheus.Histogram
	PersistFailures prometheus.Counter
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with Go runtime and process collectors
// already registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		UserOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_ops_total",
			Help:      "Directory mutations by operation and result.",
		}, []string{"op", "result"}),
		Logins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Sessions minted.",
		}),
		Resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resolves_total",
			Help:      "Session token resolutions by result.",
		}, []string{"result"}),
		PersistDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Time spent writing the collection to the backing store.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Backing-store writes that failed.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.UserOps,
		r.Logins,
		r.Resolves,
		r.PersistDuration,
		r.PersistFailures,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

// Registerer exposes the underlying registry for components that register
// their own collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer exposes the underlying registry for scraping in tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// UserOp records a directory mutation outcome.
func (r *Registry) UserOp(op, result string) {
	r.UserOps.WithLabelValues(op, result).Inc()
}

// Persisted records one write to the backing store.
func (r *Registry) Persisted(elapsed time.Duration, err error) {
	r.PersistDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.PersistFailures.Inc()
	}
}

// SessionMinted records a login.
func (r *Registry) SessionMinted() {
	r.Logins.Inc()
}

// SessionResolved records a token resolution attempt.
func (r *Registry) SessionResolved(result string) {
	r.Resolves.WithLabelValues(result).Inc()
}

// ObserveRequest records a completed HTTP request.
func (r *Registry) ObserveRequest(method string, status int, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
