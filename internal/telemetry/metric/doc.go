// Package metric provides Prometheus metrics for FileDrop.
//
// The package owns a private prometheus.Registry so that tests and
// multiple servers in one process never collide on the default registerer.
//
//   - prometheus.go: counters and histograms for uploads, downloads,
//     reaper sweeps and HTTP requests, plus the /metrics handler
//   - collector.go: a collector that reads store gauges at scrape time
//
// All Registry methods are safe to call on a nil *Registry, which lets
// callers run with metrics disabled without branching.
package metric
