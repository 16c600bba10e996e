// Package metric provides Prometheus metrics for authline.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, protocol counters and the HTTP handler
//   - collector.go: a collector that samples live connection state
//
// Metrics are exposed at /metrics in Prometheus format when the server
// is configured with a metrics address.
package metric
