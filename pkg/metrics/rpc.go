package metrics

import (
	"time"

	"github.com/olympusrpc/olympus/pkg/rpc"
)

// NewRPCMetrics creates a new Prometheus-backed rpc.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called). When
// nil is returned, callers should pass nil to Server.SetMetrics /
// Client.SetMetrics, which results in zero overhead.
//
// Example usage:
//
//	metrics.InitRegistry()
//	srv.SetMetrics(metrics.NewRPCMetrics())
func NewRPCMetrics() rpc.Metrics {
	if !IsEnabled() {
		return nil
	}

	return newPrometheusRPCMetrics()
}

// newPrometheusRPCMetrics is implemented in pkg/metrics/prometheus/rpc.go.
// This indirection avoids an import cycle while keeping the API clean.
var newPrometheusRPCMetrics func() rpc.Metrics

// RegisterRPCMetricsConstructor registers the Prometheus dispatch-runtime
// metrics constructor. Called by pkg/metrics/prometheus/rpc.go during
// package initialization.
func RegisterRPCMetricsConstructor(constructor func() rpc.Metrics) {
	newPrometheusRPCMetrics = constructor
}

// lastDispatchAccessor is implemented in pkg/metrics/prometheus/rpc.go,
// registered the same way newPrometheusRPCMetrics is.
var lastDispatchAccessor func() (procedure string, fingerprint uint64, ok bool)

// RegisterLastDispatchAccessor registers the accessor LastDispatch calls
// into. Called by pkg/metrics/prometheus/rpc.go during package
// initialization.
func RegisterLastDispatchAccessor(accessor func() (procedure string, fingerprint uint64, ok bool)) {
	lastDispatchAccessor = accessor
}

// LastDispatch reports the procedure name and Fingerprint of the most
// recently completed dispatch observed by the active rpc.Metrics
// implementation. ok is false if metrics are disabled or nothing has
// dispatched yet. pkg/metrics.NewServer's /healthz handler surfaces this
// so "olympusc status" can show whether a process is actually serving
// calls, not merely accepting connections.
func LastDispatch() (procedure string, fingerprint uint64, ok bool) {
	if lastDispatchAccessor == nil {
		return "", 0, false
	}
	return lastDispatchAccessor()
}

// ObserveDispatch records one completed call dispatched to a registered
// handler. A nil m is a no-op.
func ObserveDispatch(m rpc.Metrics, procedure string, duration time.Duration, err error) {
	if m != nil {
		m.ObserveDispatch(procedure, duration, err)
	}
}

// ObserveRegistrationMiss records a frame whose fingerprint had no
// registered handler. A nil m is a no-op.
func ObserveRegistrationMiss(m rpc.Metrics) {
	if m != nil {
		m.ObserveRegistrationMiss()
	}
}

// SetConnectedClients reports the current number of sessions a Server is
// tracking. A nil m is a no-op.
func SetConnectedClients(m rpc.Metrics, count int) {
	if m != nil {
		m.SetConnectedClients(count)
	}
}
