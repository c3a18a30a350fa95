package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olympusrpc/olympus/internal/cli/health"
	"github.com/olympusrpc/olympus/internal/telemetry"
	"github.com/olympusrpc/olympus/pkg/fnv"
)

// NewServer builds the chi router a dispatch-runtime process binds its
// metrics endpoint to. service names the process in /healthz responses
// (typically the RPC container's package name); started is the time the
// process came up, used to compute uptime.
//
// Routes:
//   - GET /healthz - liveness probe, the same health.Response shape
//     "olympusc status" decodes; Data.LastProcedure/LastFingerprint (from
//     LastDispatch) report the most recent call this process served, so a
//     probe can tell "up but never dispatched anything" apart from
//     "actively serving traffic". Data.Profiling reports whether this
//     process has continuous profiling active (see internal/telemetry).
//   - GET /metrics - Prometheus exposition, served from the active
//     registry (empty but valid if metrics are disabled)
func NewServer(service string, started time.Time) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		uptime := time.Since(started)

		var resp health.Response
		resp.Status = "healthy"
		resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
		resp.Data.Service = service
		resp.Data.StartedAt = started.Format(time.RFC3339)
		resp.Data.Uptime = uptime.String()
		resp.Data.UptimeSec = int64(uptime.Seconds())
		resp.Data.Profiling = telemetry.IsProfilingEnabled()
		if procedure, fingerprint, ok := LastDispatch(); ok {
			resp.Data.LastProcedure = procedure
			resp.Data.LastFingerprint = fnv.Fingerprint(fingerprint).String()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	})

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		reg := GetRegistry()
		if reg == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})

	return r
}
