// Package store provides SQLite-backed durable storage for inference runs.
//
// A run is appended once and never updated:
//   - Runs: one row per engine run, with the settings it used and its totals
//   - Invariants: every reported or discarded invariant of a run, with its
//     formula, repr, probability and sample counts
//
// Falsified invariants are not stored; a run only records what survived.
//
// # Ordering
//
//   - Runs are ordered by seq, the insertion order, never by wall time
//   - Invariants are ordered by ordinal, the position the engine reported
//     them in (points by name, slices in declaration order)
//
// Reading a run back therefore yields the same sequence the engine
// produced, which keeps diffs between runs stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
