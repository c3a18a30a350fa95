package rpc

import "time"

// Metrics observes dispatch-runtime activity. Implementations must accept a
// nil receiver as a no-op; callers are never required to check IsEnabled
// themselves before constructing a Server or Client. Pass nil to disable
// metrics collection with zero overhead, the same contract the rest of this
// codebase's optional metrics interfaces follow.
type Metrics interface {
	// ObserveDispatch records one completed call dispatched to a
	// registered handler: the procedure's IDL-source name, how long the
	// handler took, and its outcome (nil on success).
	ObserveDispatch(procedure string, duration time.Duration, err error)

	// ObserveRegistrationMiss records a frame whose fingerprint had no
	// registered handler.
	ObserveRegistrationMiss()

	// SetConnectedClients reports the current number of sessions a
	// Server is tracking.
	SetConnectedClients(count int)
}
