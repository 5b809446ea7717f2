// Package shutdown coordinates graceful process termination.
//
// Hooks registered with OnShutdown run in reverse registration order when
// the process receives SIGINT or SIGTERM, or when Trigger is called after
// a fatal listener error. All hooks share one context bounded by the
// handler timeout.
package shutdown
