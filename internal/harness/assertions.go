package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Points   []PointResult // Everything reported, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nReported invariants:\n")
	for _, p := range e.Points {
		for _, f := range p.Reported {
			fmt.Fprintf(&buf, "  %s: %s\n", p.Point, f)
		}
	}

	return buf.String()
}

// AssertionContext gives assertions access to the stored run.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	RunID string
}

// assertReported checks that the point reported the formula.
func assertReported(result *Result, a Assertion) error {
	p, ok := result.Point(a.Point)
	if ok && slices.Contains(p.Reported, a.Formula) {
		return nil
	}
	return &AssertionError{
		Type:     AssertReported,
		Expected: fmt.Sprintf("%s: %s", a.Point, a.Formula),
		Actual:   describeAbsence(result, a),
		Points:   result.Points,
	}
}

// assertAbsent checks that the point did not report the formula. A
// discarded invariant counts as absent.
func assertAbsent(result *Result, a Assertion) error {
	p, ok := result.Point(a.Point)
	if !ok || !slices.Contains(p.Reported, a.Formula) {
		return nil
	}
	return &AssertionError{
		Type:     AssertAbsent,
		Expected: fmt.Sprintf("%s: %s not reported", a.Point, a.Formula),
		Actual:   "reported",
		Points:   result.Points,
	}
}

// assertDiscarded checks that a filter vetoed the formula, optionally
// with a reason containing a.Reason.
func assertDiscarded(result *Result, a Assertion) error {
	p, _ := result.Point(a.Point)
	for _, d := range p.Discarded {
		if d.Formula != a.Formula {
			continue
		}
		if strings.Contains(d.Reason, a.Reason) {
			return nil
		}
		return &AssertionError{
			Type:     AssertDiscarded,
			Expected: fmt.Sprintf("reason containing %q", a.Reason),
			Actual:   fmt.Sprintf("reason %q", d.Reason),
			Points:   result.Points,
		}
	}
	return &AssertionError{
		Type:     AssertDiscarded,
		Expected: fmt.Sprintf("%s: %s discarded", a.Point, a.Formula),
		Actual:   describeAbsence(result, a),
		Points:   result.Points,
	}
}

func describeAbsence(result *Result, a Assertion) string {
	p, ok := result.Point(a.Point)
	switch {
	case !ok:
		return fmt.Sprintf("no program point %q", a.Point)
	case slices.Contains(p.Reported, a.Formula):
		return "reported"
	}
	for _, d := range p.Discarded {
		if d.Formula == a.Formula {
			return fmt.Sprintf("discarded (%s)", d.Reason)
		}
	}
	return "not found"
}

func assertCount(result *Result, a Assertion, got int) error {
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   fmt.Sprintf("%d", got),
		Points:   result.Points,
	}
}

// assertKindCount counts the reported invariants of one kind in the
// stored run.
func assertKindCount(result *Result, a Assertion, actx *AssertionContext) error {
	stored, err := actx.Store.ReadInvariantsByKind(actx.Ctx, actx.RunID, inv.Kind(a.Kind))
	if err != nil {
		return fmt.Errorf("kind_count: %w", err)
	}
	n := 0
	for _, i := range stored {
		if !i.IsDiscarded() {
			n++
		}
	}
	return assertCount(result, a, n)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for kind_count assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertReported:
			err = assertReported(result, assertion)
		case AssertAbsent:
			err = assertAbsent(result, assertion)
		case AssertDiscarded:
			err = assertDiscarded(result, assertion)
		case AssertReportedCount:
			err = assertCount(result, assertion, result.ReportedCount())
		case AssertFalsifiedCount:
			err = assertCount(result, assertion, result.Falsified)
		case AssertSuppressedCount:
			err = assertCount(result, assertion, result.Suppressed)
		case AssertKindCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: kind_count requires database context", i)
			} else {
				err = assertKindCount(result, assertion, actx)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
