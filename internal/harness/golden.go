package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file form of a scenario result.
type Snapshot struct {
	ScenarioName string        `json:"scenario_name"`
	RunID        string        `json:"run_id"`
	Error        string        `json:"error,omitempty"`
	Samples      int64         `json:"samples"`
	Falsified    int           `json:"falsified"`
	Suppressed   int           `json:"suppressed"`
	Points       []PointResult `json:"points"`
}

// MarshalSnapshot renders a result as indented JSON with a trailing
// newline. Field order is fixed by Snapshot, so equal results always
// produce identical bytes.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := Snapshot{
		ScenarioName: scenarioName,
		RunID:        result.RunID,
		Error:        result.Error,
		Samples:      result.Samples,
		Falsified:    result.Falsified,
		Suppressed:   result.Suppressed,
		Points:       result.Points,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
