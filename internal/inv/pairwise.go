package inv

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/invgen/internal/proglang"
)

// PairwiseFunctionUnary states that two integral sequences are
// element-aligned under a named function: y[i] == f(x[i]) for every i, or
// x[i] == f(y[i]) when inverse.
type PairwiseFunctionUnary struct {
	base
	name    string
	fn      UnaryFunc
	inverse bool
	pairs   int
}

// Kind implements Invariant.
func (*PairwiseFunctionUnary) Kind() Kind { return KindPairwiseFunctionUnary }

// FunctionName returns the name of the applied function.
func (p *PairwiseFunctionUnary) FunctionName() string { return p.name }

// Inverse reports whether the function maps the second sequence to the first.
func (p *PairwiseFunctionUnary) Inverse() bool { return p.inverse }

// AddSample implements Invariant. Sequences of unequal length falsify, as
// does the first element pair that does not satisfy the function.
func (p *PairwiseFunctionUnary) AddSample(values []proglang.Value, count int) {
	x, xok := values[0].(proglang.IntArray)
	y, yok := values[1].(proglang.IntArray)
	if !xok || !yok || !p.begin(count) {
		return
	}
	if len(x) != len(y) {
		p.falsify()
		return
	}
	if p.inverse {
		x, y = y, x
	}
	for i := range x {
		p.pairs++
		if y[i] != p.fn(x[i]) {
			p.falsify()
			return
		}
	}
}

// JustifiedProbability implements Invariant: 0.5 per element pair checked,
// so the estimate only ever falls as evidence accumulates.
func (p *PairwiseFunctionUnary) JustifiedProbability() float64 {
	return p.probability(func() float64 {
		return math.Pow(0.5, float64(p.pairs))
	})
}

// Justified implements Invariant.
func (p *PairwiseFunctionUnary) Justified(limit float64) bool {
	return p.JustifiedProbability() <= limit
}

// Format implements Invariant: "b[] == abs(a[])".
func (p *PairwiseFunctionUnary) Format() string {
	x, y := seqName(p.slice.Vars[0].Name), seqName(p.slice.Vars[1].Name)
	if p.inverse {
		x, y = y, x
	}
	return fmt.Sprintf("%s == %s(%s)", y, p.name, x)
}

// seqName marks a plain sequence name as a whole-array reference. Derived
// subsequence names already end in a range.
func seqName(name string) string {
	if strings.HasSuffix(name, "]") {
		return name
	}
	return name + "[]"
}

// Repr implements Invariant.
func (p *PairwiseFunctionUnary) Repr() string {
	return fmt.Sprintf("PairwiseFunctionUnary%s: state=%s; function=%s, inverse=%t, pairs=%d",
		p.slice.VarNames(), p.state, p.name, p.inverse, p.pairs)
}

// IsSameFormula implements Invariant.
func (p *PairwiseFunctionUnary) IsSameFormula(other Invariant) bool {
	q, ok := other.(*PairwiseFunctionUnary)
	return ok && p.name == q.name && p.inverse == q.inverse
}

// IsExclusiveFormula implements Invariant. Two function applications are
// never known to exclude each other.
func (p *PairwiseFunctionUnary) IsExclusiveFormula(Invariant) bool {
	return false
}
