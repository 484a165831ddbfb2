// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Region poll outcomes by kind
//   - Served snapshot size and generation
//   - Region fetch latency
package metrics
