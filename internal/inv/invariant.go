package inv

import (
	"github.com/roach88/invgen/internal/proglang"
)

const (
	// ProbabilityJustified means the invariant certainly did not arise by chance.
	ProbabilityJustified = 0.0

	// ProbabilityUnjustified means the invariant is indistinguishable from chance.
	ProbabilityUnjustified = 1.0
)

// Kind names an invariant family.
type Kind string

const (
	KindOneOfScalar           Kind = "OneOfScalar"
	KindPairwiseFunctionUnary Kind = "PairwiseFunctionUnary"
	KindLinearTernary         Kind = "LinearTernary"
)

// State is the lifecycle state of an invariant.
type State int

const (
	Active State = iota
	Falsified
)

func (s State) String() string {
	if s == Falsified {
		return "falsified"
	}
	return "active"
}

// Invariant is the capability shared by every family. The set of
// implementations is closed: *OneOfScalar, *PairwiseFunctionUnary and
// *LinearTernary.
type Invariant interface {
	Kind() Kind
	Slice() *Slice
	State() State
	IsFalsified() bool

	// AddSample tests the hypothesis against one observed tuple, in slice
	// variable order. count is the number of identical occurrences the
	// tuple stands for. No-op once falsified.
	AddSample(values []proglang.Value, count int)

	// JustifiedProbability estimates the chance the invariant holds by
	// coincidence, in [0,1]. Lower is stronger.
	JustifiedProbability() float64

	// Justified reports whether JustifiedProbability is within limit.
	Justified(limit float64) bool

	// Format renders the invariant for humans. Empty when there is nothing
	// to claim yet.
	Format() string

	// Repr renders the internal state for debugging.
	Repr() string

	// IsSameFormula compares cached coefficients or sets only, never the
	// sample history. Invariants of different families never match.
	IsSameFormula(other Invariant) bool

	// IsExclusiveFormula reports whether both cannot hold at once.
	IsExclusiveFormula(other Invariant) bool

	// NumSamples is weighted by occurrence count.
	NumSamples() int

	// NumModified counts non-repeating observations.
	NumModified() int

	DiscardReason() string

	// SetDiscardReason records why a filter vetoed the invariant. The first
	// reason wins; returns false if one was already set.
	SetDiscardReason(reason string) bool

	core() *base
}

// base holds the state every family shares.
type base struct {
	slice    *Slice
	state    State
	samples  int
	modified int

	prob      float64
	probValid bool

	discard string
}

func (b *base) core() *base { return b }

// Slice returns the slice that owns the invariant.
func (b *base) Slice() *Slice { return b.slice }

// State returns the lifecycle state.
func (b *base) State() State { return b.state }

// IsFalsified reports whether the invariant has been disproved.
func (b *base) IsFalsified() bool { return b.state == Falsified }

// NumSamples implements Invariant.
func (b *base) NumSamples() int { return b.samples }

// NumModified implements Invariant.
func (b *base) NumModified() int { return b.modified }

// DiscardReason implements Invariant.
func (b *base) DiscardReason() string { return b.discard }

// SetDiscardReason implements Invariant.
func (b *base) SetDiscardReason(reason string) bool {
	if b.discard != "" || reason == "" {
		return false
	}
	b.discard = reason
	return true
}

// begin accounts for one modified observation. Returns false if the
// invariant is already falsified and the sample must be ignored.
func (b *base) begin(count int) bool {
	if b.state == Falsified {
		return false
	}
	b.samples += count
	b.modified++
	b.probValid = false
	return true
}

// repeat accounts for an unmodified observation: the tuple is identical to
// the previous one at this slice, so the hypothesis is not re-tested.
func (b *base) repeat(count int) {
	if b.state == Falsified {
		return
	}
	b.samples += count
	b.probValid = false
}

// falsify is the only transition out of Active.
func (b *base) falsify() {
	b.state = Falsified
	b.probValid = false
}

// probability caches compute until the next state-changing sample.
// Falsified invariants are never justified.
func (b *base) probability(compute func() float64) float64 {
	if b.state == Falsified {
		return ProbabilityUnjustified
	}
	if !b.probValid {
		b.prob = compute()
		b.probValid = true
	}
	return b.prob
}
