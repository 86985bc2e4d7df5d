// Package engine drives inference over a parsed trace.
//
// ARCHITECTURE:
//
// Each program point is independent. A PointState owns the point's
// variables, its slices and every candidate invariant under them, and
// ingests the point's samples one at a time, synchronously:
//  1. Parse each assigned value text by the variable's representation type
//  2. Compute derived variables (sums, subsequences, subscripts)
//  3. Feed every slice whose variables all have values
//
// Engine.Run processes distinct points in parallel with an errgroup,
// bounded by the engine.workers switch. Points share nothing mutable
// except the type registry, which is safe for concurrent first inserts,
// and the diagnostic counters, which are atomic.
//
// After ingestion, surviving invariants that are justified within the
// probability limit pass through the filter pipeline. The result is
// ordered by point name, then slice order, then invariant order, so runs
// over the same trace report identically regardless of scheduling.
//
// ERRORS:
//
// A value that cannot be parsed, or an unsupported type, aborts the run
// with an IngestError. Falsified invariants are expected and silent.
package engine
