// Package prometheus implements Olympus's dispatch-runtime metrics
// interfaces with real Prometheus collectors. It is imported for its
// init() side effect only; importers never reference its exported
// symbols directly.
package prometheus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/olympusrpc/olympus/pkg/fnv"
	"github.com/olympusrpc/olympus/pkg/metrics"
	"github.com/olympusrpc/olympus/pkg/rpc"
)

func init() {
	metrics.RegisterRPCMetricsConstructor(newRPCMetrics)
	metrics.RegisterLastDispatchAccessor(lastDispatch)
}

// lastProcedure/lastFingerprint record the most recently observed
// dispatch across the single active rpcMetrics instance, for
// metrics.LastDispatch. A plain mutex-guarded pair is enough: dispatch
// throughput is bounded by handler latency, not by this bookkeeping.
var (
	lastMu          sync.RWMutex
	lastProcedure   string
	lastFingerprint uint64
	hasDispatched   atomic.Bool
)

func lastDispatch() (procedure string, fingerprint uint64, ok bool) {
	if !hasDispatched.Load() {
		return "", 0, false
	}
	lastMu.RLock()
	defer lastMu.RUnlock()
	return lastProcedure, lastFingerprint, true
}

// rpcMetrics is the Prometheus implementation of rpc.Metrics.
type rpcMetrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	registrationMiss prometheus.Counter
	connectedClients prometheus.Gauge
}

// newRPCMetrics creates a new Prometheus-backed rpc.Metrics instance.
//
// Returns nil if metrics are not enabled (metrics.InitRegistry not
// called).
func newRPCMetrics() rpc.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &rpcMetrics{
		dispatchTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "olympus_rpc_dispatch_total",
				Help: "Total number of calls dispatched to a registered handler, by procedure and outcome",
			},
			[]string{"procedure", "status"}, // status: "ok", "error"
		),
		dispatchDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "olympus_rpc_dispatch_duration_milliseconds",
				Help: "Duration of dispatched handler calls in milliseconds",
				Buckets: []float64{
					0.1,
					0.5,
					1,
					5,
					10,
					50,
					100,
					500,
					1000,
					5000,
				},
			},
			[]string{"procedure"},
		),
		registrationMiss: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "olympus_rpc_registration_miss_total",
				Help: "Total number of frames received with no registered handler for their fingerprint",
			},
		),
		connectedClients: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "olympus_rpc_connected_clients",
				Help: "Current number of sessions a Server is tracking",
			},
		),
	}
}

func (m *rpcMetrics) ObserveDispatch(procedure string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dispatchTotal.WithLabelValues(procedure, status).Inc()
	m.dispatchDuration.WithLabelValues(procedure).Observe(float64(duration.Microseconds()) / 1000.0)

	lastMu.Lock()
	lastProcedure = procedure
	lastFingerprint = uint64(fnv.Sum64(procedure))
	lastMu.Unlock()
	hasDispatched.Store(true)
}

func (m *rpcMetrics) ObserveRegistrationMiss() {
	if m == nil {
		return
	}
	m.registrationMiss.Inc()
}

func (m *rpcMetrics) SetConnectedClients(count int) {
	if m == nil {
		return
	}
	m.connectedClients.Set(float64(count))
}
