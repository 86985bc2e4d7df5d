package store

import (
	"context"
	"fmt"
)

// RunDiff lists reported invariants that differ between two runs. An
// invariant is identified by its point and formula.
type RunDiff struct {
	From, To string

	// Added were reported by To but not From; Removed the reverse.
	Added   []Invariant
	Removed []Invariant
}

// Empty reports whether both runs reported the same invariants.
func (d RunDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffRuns compares the reported invariants of two stored runs. Order
// within Added and Removed follows each run's reported order.
func (s *Store) DiffRuns(ctx context.Context, from, to string) (RunDiff, error) {
	d := RunDiff{From: from, To: to}
	a, err := s.reportedKeys(ctx, from)
	if err != nil {
		return d, err
	}
	b, err := s.reportedKeys(ctx, to)
	if err != nil {
		return d, err
	}
	d.Removed = subtract(a, b)
	d.Added = subtract(b, a)
	return d, nil
}

type keyedInvariants struct {
	order []Invariant
	keys  map[[2]string]bool
}

func (s *Store) reportedKeys(ctx context.Context, runID string) (keyedInvariants, error) {
	if _, err := s.ReadRun(ctx, runID); err != nil {
		return keyedInvariants{}, fmt.Errorf("diff runs: run %s: %w", runID, err)
	}
	all, err := s.ReadInvariants(ctx, runID)
	if err != nil {
		return keyedInvariants{}, fmt.Errorf("diff runs: %w", err)
	}
	k := keyedInvariants{keys: make(map[[2]string]bool)}
	for _, i := range all {
		if i.IsDiscarded() {
			continue
		}
		k.order = append(k.order, i)
		k.keys[[2]string{i.Point, i.Formula}] = true
	}
	return k, nil
}

func subtract(a, b keyedInvariants) []Invariant {
	var out []Invariant
	for _, i := range a.order {
		if !b.keys[[2]string{i.Point, i.Formula}] {
			out = append(out, i)
		}
	}
	return out
}
