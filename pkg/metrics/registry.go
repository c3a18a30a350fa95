// Package metrics provides Olympus's optional observability surface:
// dispatch-runtime counters, histograms and gauges backed by Prometheus,
// reachable only through small interfaces so that a caller who never
// enables metrics pays nothing for them.
//
// The concrete Prometheus collectors live in pkg/metrics/prometheus to
// avoid this package importing the prometheus client directly; importing
// that package for its init() side effect is what actually wires the
// constructors registered here.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry enables metrics collection, creating a fresh Prometheus
// registry. Safe to call more than once; later calls replace the
// registry, which is mainly useful in tests.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// GetRegistry returns the active registry, or nil if metrics are
// disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// resetForTest disables metrics and drops the registry. Only called from
// this package's own tests.
func resetForTest() {
	mu.Lock()
	defer mu.Unlock()
	registry = nil
	enabled = false
}
