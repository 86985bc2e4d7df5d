package inv

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/invgen/internal/proglang"
)

// DefaultOneOfSize is the default capacity K of a OneOfScalar.
const DefaultOneOfSize = 5

// OneOfScalar states that an integral scalar takes one of at most K
// distinct values. Holding a single value is an equality claim.
type OneOfScalar struct {
	base
	limit int
	elts  []int64 // Sorted, distinct
}

// Kind implements Invariant.
func (*OneOfScalar) Kind() Kind { return KindOneOfScalar }

// NumElts is the number of distinct values seen so far.
func (o *OneOfScalar) NumElts() int { return len(o.elts) }

// Elts returns the values seen so far in ascending order.
func (o *OneOfScalar) Elts() []int64 { return slices.Clone(o.elts) }

// Elt returns the single value when the invariant is an equality.
func (o *OneOfScalar) Elt() (int64, error) {
	if len(o.elts) != 1 {
		return 0, fmt.Errorf("one-of represents %d elements", len(o.elts))
	}
	return o.elts[0], nil
}

// AddSample implements Invariant. A new value is kept; a duplicate changes
// nothing; exceeding capacity falsifies.
func (o *OneOfScalar) AddSample(values []proglang.Value, count int) {
	v, ok := values[0].(proglang.Int)
	if !ok || !o.begin(count) {
		return
	}
	i, found := slices.BinarySearch(o.elts, int64(v))
	if found {
		return
	}
	if len(o.elts) == o.limit {
		o.falsify()
		return
	}
	o.elts = slices.Insert(o.elts, i, int64(v))
}

// JustifiedProbability implements Invariant. The claim is an exact
// enumeration, so any observed value justifies it.
func (o *OneOfScalar) JustifiedProbability() float64 {
	return o.probability(func() float64 {
		if len(o.elts) == 0 {
			return ProbabilityUnjustified
		}
		return ProbabilityJustified
	})
}

// Justified implements Invariant.
func (o *OneOfScalar) Justified(limit float64) bool {
	return o.JustifiedProbability() <= limit
}

// Format implements Invariant: "x == 3" or "x one of { 1, 2, 3 }".
func (o *OneOfScalar) Format() string {
	name := o.slice.Vars[0].Name
	switch len(o.elts) {
	case 0:
		return ""
	case 1:
		return name + " == " + strconv.FormatInt(o.elts[0], 10)
	}
	return name + " one of " + o.setRep()
}

func (o *OneOfScalar) setRep() string {
	parts := make([]string, len(o.elts))
	for i, e := range o.elts {
		parts[i] = strconv.FormatInt(e, 10)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Repr implements Invariant.
func (o *OneOfScalar) Repr() string {
	return fmt.Sprintf("OneOfScalar(%s): state=%s, num_elts=%d, elts=%s",
		o.slice.Vars[0].Name, o.state, len(o.elts), o.setRep())
}

// IsSameFormula implements Invariant.
func (o *OneOfScalar) IsSameFormula(other Invariant) bool {
	p, ok := other.(*OneOfScalar)
	return ok && slices.Equal(o.elts, p.elts)
}

// IsExclusiveFormula reports whether both value sets are non-empty and
// disjoint.
func (o *OneOfScalar) IsExclusiveFormula(other Invariant) bool {
	p, ok := other.(*OneOfScalar)
	if !ok || len(o.elts) == 0 || len(p.elts) == 0 {
		return false
	}
	for _, e := range o.elts {
		if _, found := slices.BinarySearch(p.elts, e); found {
			return false
		}
	}
	return true
}
