package inv

import "sync/atomic"

// Counters are diagnostic counts exposed for external reporting.
//
// Thread-safety: Counters is safe for concurrent use; program points
// ingesting in parallel share one instance.
type Counters struct {
	// ImpliedNonInstantiated counts invariants that were never created
	// because they restate a derived-variable identity.
	ImpliedNonInstantiated atomic.Int64
}

// DefaultCounters is the process-wide instance used by factories that do
// not carry their own.
var DefaultCounters = &Counters{}
