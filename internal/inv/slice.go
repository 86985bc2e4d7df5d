package inv

import (
	"slices"
	"strings"

	"github.com/roach88/invgen/internal/ppt"
	"github.com/roach88/invgen/internal/proglang"
)

// Slice is a fixed, ordered tuple of variables at one program point, and
// the candidate invariants over that tuple. A slice exclusively owns its
// invariants.
type Slice struct {
	Point *ppt.Point
	Vars  []*ppt.VarInfo
	Invs  []Invariant

	numSamples int
	last       []proglang.Value
}

// NewSlice creates an empty slice over vars.
func NewSlice(point *ppt.Point, vars ...*ppt.VarInfo) *Slice {
	return &Slice{Point: point, Vars: vars}
}

// Arity is the number of variables in the tuple.
func (s *Slice) Arity() int { return len(s.Vars) }

// NumSamples is the total weighted count of tuples added to the slice.
func (s *Slice) NumSamples() int { return s.numSamples }

// Attach adds inv to the slice. inv must have been instantiated over s.
func (s *Slice) Attach(inv Invariant) {
	s.Invs = append(s.Invs, inv)
}

// Add feeds one tuple to every active invariant. A tuple identical to the
// previous one is an unmodified repeat: sample counts grow but hypotheses
// are not re-tested.
func (s *Slice) Add(values []proglang.Value, count int) {
	s.numSamples += count
	if s.last != nil && proglang.EqualTuple(s.last, values) {
		for _, inv := range s.Invs {
			inv.core().repeat(count)
		}
		return
	}
	s.last = slices.Clone(values)
	for _, inv := range s.Invs {
		if !inv.IsFalsified() {
			inv.AddSample(values, count)
		}
	}
}

// Prune drops falsified invariants and returns how many were dropped.
func (s *Slice) Prune() int {
	before := len(s.Invs)
	s.Invs = slices.DeleteFunc(s.Invs, Invariant.IsFalsified)
	return before - len(s.Invs)
}

// UsesVar reports whether vi is part of the slice's tuple.
func (s *Slice) UsesVar(vi *ppt.VarInfo) bool {
	return slices.Contains(s.Vars, vi)
}

// VarNames renders the tuple as "(x, y, z)".
func (s *Slice) VarNames() string {
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = v.Name
	}
	return "(" + strings.Join(names, ", ") + ")"
}
