package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/invgen/internal/engine"
)

// Scenario defines an inference scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Trace is the inline trace text.
	Trace string `yaml:"trace,omitempty"`

	// TraceFile is a trace path, relative to the scenario file. Exactly
	// one of Trace and TraceFile is set.
	TraceFile string `yaml:"trace_file,omitempty"`

	// Settings override switch defaults. Keys may be dotted or nested.
	Settings map[string]any `yaml:"settings,omitempty"`

	// RunID fixes the run ID. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// ExpectError is the ingest error code the run must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the reported invariants and run totals.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Point is the program point (reported, absent, discarded).
	Point string `yaml:"point,omitempty"`

	// Formula is the formatted invariant (reported, absent, discarded).
	Formula string `yaml:"formula,omitempty"`

	// Reason is a substring of the discard reason (discarded, optional).
	Reason string `yaml:"reason,omitempty"`

	// Kind is the invariant kind (kind_count).
	Kind string `yaml:"kind,omitempty"`

	// Count is the expected number (the *_count assertions).
	Count int `yaml:"count"`
}

// Assertion type constants.
const (
	AssertReported        = "reported"
	AssertAbsent          = "absent"
	AssertDiscarded       = "discarded"
	AssertReportedCount   = "reported_count"
	AssertFalsifiedCount  = "falsified_count"
	AssertSuppressedCount = "suppressed_count"
	AssertKindCount       = "kind_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the trace path relative to the scenario BEFORE validation
	if scenario.TraceFile != "" && !filepath.IsAbs(scenario.TraceFile) {
		scenario.TraceFile = filepath.Join(filepath.Dir(path), scenario.TraceFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Trace == "" && s.TraceFile == "":
		return fmt.Errorf("one of trace and trace_file is required")
	case s.Trace != "" && s.TraceFile != "":
		return fmt.Errorf("trace and trace_file are mutually exclusive")
	}

	if s.TraceFile != "" {
		if _, err := os.Stat(s.TraceFile); os.IsNotExist(err) {
			return fmt.Errorf("trace file not found: %s", s.TraceFile)
		}
	}

	if s.ExpectError != "" {
		switch engine.IngestErrorCode(s.ExpectError) {
		case engine.ErrCodeParseFailed, engine.ErrCodeUnknownVariable, engine.ErrCodeBadDeclaration:
		default:
			return fmt.Errorf("expect_error: unknown error code %q", s.ExpectError)
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions are not allowed with expect_error")
		}
		return nil
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertReported, AssertAbsent, AssertDiscarded:
		if a.Point == "" || a.Formula == "" {
			return fmt.Errorf("assertions[%d]: point and formula are required for %s", index, a.Type)
		}
	case AssertKindCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for kind_count", index)
		}
		fallthrough
	case AssertReportedCount, AssertFalsifiedCount, AssertSuppressedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
