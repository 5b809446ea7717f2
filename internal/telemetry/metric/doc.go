// Package metric exposes Prometheus metrics for the user directory.
//
//   - prometheus.go: the Registry, its counters and histograms, and the
//     /metrics handler
//   - collector.go: gauges read from live state at scrape time
//
// Registry implements the service observer interface, so the directory and
// session services report into it without importing Prometheus.
package metric
