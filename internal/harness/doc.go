// Package harness runs inference scenarios: a trace, optional switch
// overrides, and assertions about what the engine reports.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	settings:
//	  filter.enough_samples.min_modified: 3
//	trace: |
//	  ppt P
//	    var x int
//	  sample P
//	    x 1
//	assertions:
//	  - type: reported
//	    point: P
//	    formula: "x == 1"
//	  - type: falsified_count
//	    count: 0
//
// The trace is given inline with "trace" or by path with "trace_file",
// resolved relative to the scenario file. "expect_error" names the
// ingest error code a run must fail with; such scenarios take no
// assertions.
//
// # Determinism
//
// Every run uses a fixed run ID ("test-run-default" unless run_id is set)
// and writes to a fresh in-memory store, so two runs of one scenario
// produce identical snapshots. Golden files hold those snapshots.
package harness
