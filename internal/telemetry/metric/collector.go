package metric

import "github.com/prometheus/client_golang/prometheus"

// StateSource reports live counts read at scrape time.
type StateSource interface {
	Len() int
}

// SessionSource reports the session table size.
type SessionSource interface {
	Count() int
	CountIdentities() int
}

// Collector exports the current user and session counts.
type Collector struct {
	users    StateSource
	sessions SessionSource

	usersDesc      *prometheus.Desc
	sessionsDesc   *prometheus.Desc
	identitiesDesc *prometheus.Desc
}

// NewCollector creates a collector over the directory and the session
// table. Either source may be nil.
func NewCollector(users StateSource, sessions SessionSource) *Collector {
	return &Collector{
		users:    users,
		sessions: sessions,
		usersDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "users"),
			"Records currently in the directory.",
			nil, nil,
		),
		sessionsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions"),
			"Sessions minted since startup.",
			nil, nil,
		),
		identitiesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "session_identities"),
			"Distinct identities holding at least one session.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.usersDesc
	ch <- c.sessionsDesc
	ch <- c.identitiesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.users != nil {
		ch <- prometheus.MustNewConstMetric(c.usersDesc, prometheus.GaugeValue, float64(c.users.Len()))
	}
	if c.sessions != nil {
		ch <- prometheus.MustNewConstMetric(c.sessionsDesc, prometheus.GaugeValue, float64(c.sessions.Count()))
		ch <- prometheus.MustNewConstMetric(c.identitiesDesc, prometheus.GaugeValue, float64(c.sessions.CountIdentities()))
	}
}
