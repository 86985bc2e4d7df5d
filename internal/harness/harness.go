package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/engine"
	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/store"
	"github.com/roach88/invgen/internal/testutil"
	"github.com/roach88/invgen/internal/trace"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with a
// fixed run ID and private suppression counters.
//
// Execution flow:
// 1. Apply settings overrides to the defaults
// 2. Read the trace
// 3. Run the engine
// 4. Record the run in the store
// 5. Evaluate assertions against the result and the stored run
//
// Errors are returned for scenarios that cannot be executed at all (bad
// settings, unreadable trace, unexpected ingest failure). Assertion
// failures are recorded in the result.
func Run(scenario *Scenario) (*Result, error) {
	settings := config.Defaults()
	if err := settings.Merge(scenario.Settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	tr, err := readTrace(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runIDs := testutil.NewFixedRunIDGenerator(scenario.RunID)
	eng := engine.New(settings,
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		engine.WithCounters(&inv.Counters{}),
		engine.WithRunIDGenerator(runIDs),
	)

	ctx := context.Background()
	res, runErr := eng.Run(ctx, tr)

	result := NewResult()
	result.RunID = runIDs.Generate()
	if scenario.ExpectError != "" {
		checkExpectedError(result, runErr, scenario.ExpectError)
		return result, nil
	}
	if runErr != nil {
		return nil, fmt.Errorf("run failed: %w", runErr)
	}
	record(result, res)

	if _, err := st.WriteRun(ctx, res, scenario.Name, settings); err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
		RunID: res.RunID,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func readTrace(scenario *Scenario) (*trace.Trace, error) {
	if scenario.TraceFile != "" {
		tr, err := trace.ReadFile(scenario.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read trace: %w", err)
		}
		return tr, nil
	}
	tr, err := trace.Read(strings.NewReader(scenario.Trace))
	if err != nil {
		return nil, fmt.Errorf("failed to read inline trace: %w", err)
	}
	return tr, nil
}

func checkExpectedError(result *Result, err error, want string) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected run to fail with %s, but it succeeded", want))
		return
	}
	var ie *engine.IngestError
	if !errors.As(err, &ie) {
		result.AddError(fmt.Sprintf("expected %s, got %v", want, err))
		return
	}
	result.Error = string(ie.Code)
	if result.Error != want {
		result.AddError(fmt.Sprintf("expected %s, got %s: %v", want, ie.Code, err))
	}
}

func record(result *Result, res *engine.Result) {
	result.RunID = res.RunID
	result.Samples = res.Samples
	result.Falsified = res.Falsified
	result.Suppressed = res.Suppressed
	for _, p := range res.Points {
		pr := PointResult{
			Point:    p.Point,
			Samples:  p.Samples,
			Reported: make([]string, 0, len(p.Reported)),
		}
		for _, i := range p.Reported {
			pr.Reported = append(pr.Reported, i.Format())
		}
		for _, i := range p.Discarded {
			pr.Discarded = append(pr.Discarded, DiscardedInvariant{Formula: i.Format(), Reason: i.DiscardReason()})
		}
		result.Points = append(result.Points, pr)
	}
}
