package inv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/ppt"
)

// sumsPoint declares a, i and the sums used by the suppression cases.
type sumsPoint struct {
	*testPoint
	a, i *ppt.VarInfo
}

func newSumsPoint(t *testing.T) *sumsPoint {
	tp := newTestPoint(t)
	return &sumsPoint{testPoint: tp, a: tp.v("a", "int[]"), i: tp.v("i", "int")}
}

func (sp *sumsPoint) sumPrefix(shift int) *ppt.VarInfo {
	sub := sp.must(sp.p.DeriveSubsequence(sp.a, sp.i, shift, true))
	return sp.must(sp.p.DeriveSum(sub))
}

func (sp *sumsPoint) sumSuffix(shift int) *ppt.VarInfo {
	sub := sp.must(sp.p.DeriveSubsequence(sp.a, sp.i, shift, false))
	return sp.must(sp.p.DeriveSum(sub))
}

func (sp *sumsPoint) sumWhole() *ppt.VarInfo {
	return sp.must(sp.p.DeriveSum(sp.a))
}

func (sp *sumsPoint) elt(shift int) *ppt.VarInfo {
	return sp.must(sp.p.DeriveSubscript(sp.a, sp.i, shift))
}

func TestSuppression_LeftRightWhole(t *testing.T) {
	sp := newSumsPoint(t)
	left, right, whole := sp.sumPrefix(0), sp.sumSuffix(1), sp.sumWhole()
	f := newTestFactory()

	for _, order := range [][]*ppt.VarInfo{{left, right, whole}, {whole, right, left}, {right, whole, left}} {
		before := f.Counters.ImpliedNonInstantiated.Load()
		l := f.InstantiateLinearTernary(NewSlice(sp.p, order...))
		assert.Nil(t, l)
		assert.Equal(t, before+1, f.Counters.ImpliedNonInstantiated.Load())
	}
}

func TestSuppression_ShiftedPartition(t *testing.T) {
	sp := newSumsPoint(t)
	f := newTestFactory()

	// sum(a[0..i-1]) + sum(a[i..]) == sum(a)
	assert.Nil(t, f.InstantiateLinearTernary(NewSlice(sp.p, sp.sumPrefix(-1), sp.sumSuffix(0), sp.sumWhole())))
	assert.Equal(t, int64(1), f.Counters.ImpliedNonInstantiated.Load())
}

func TestSuppression_NotAPartition(t *testing.T) {
	sp := newSumsPoint(t)
	f := newTestFactory()

	// a[0..i] and a[i..] overlap at a[i].
	l := f.InstantiateLinearTernary(NewSlice(sp.p, sp.sumPrefix(0), sp.sumSuffix(0), sp.sumWhole()))
	assert.NotNil(t, l)
	assert.Zero(t, f.Counters.ImpliedNonInstantiated.Load())
}

func TestSuppression_BoundaryElement(t *testing.T) {
	tests := []struct {
		name     string
		build    func(sp *sumsPoint) []*ppt.VarInfo
		suppress bool
	}{
		{
			name: "prefixes and a[i]",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumPrefix(0), sp.sumPrefix(-1), sp.elt(0)}
			},
			suppress: true,
		},
		{
			name: "a[i] first",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.elt(0), sp.sumPrefix(-1), sp.sumPrefix(0)}
			},
			suppress: true,
		},
		{
			name: "suffixes and a[i]",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumSuffix(0), sp.sumSuffix(1), sp.elt(0)}
			},
			suppress: true,
		},
		{
			name: "shifted prefixes and a[i+1]",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumPrefix(1), sp.sumPrefix(0), sp.elt(1)}
			},
			suppress: true,
		},
		{
			name: "subscript off the boundary",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumPrefix(0), sp.sumPrefix(-1), sp.elt(-1)}
			},
			suppress: false,
		},
		{
			name: "prefix and suffix",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumPrefix(0), sp.sumSuffix(1), sp.elt(0)}
			},
			suppress: false,
		},
		{
			name: "whole sequence is not a part",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumWhole(), sp.sumPrefix(0), sp.elt(0)}
			},
			suppress: false,
		},
		{
			name: "plain scalar",
			build: func(sp *sumsPoint) []*ppt.VarInfo {
				return []*ppt.VarInfo{sp.sumPrefix(0), sp.sumPrefix(-1), sp.i}
			},
			suppress: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := newSumsPoint(t)
			f := newTestFactory()
			l := f.InstantiateLinearTernary(NewSlice(sp.p, tt.build(sp)...))
			if tt.suppress {
				assert.Nil(t, l)
				assert.Equal(t, int64(1), f.Counters.ImpliedNonInstantiated.Load())
			} else {
				assert.NotNil(t, l)
				assert.Zero(t, f.Counters.ImpliedNonInstantiated.Load())
			}
		})
	}
}

func TestSuppression_UnrelatedScalars(t *testing.T) {
	tp := newTestPoint(t)
	f := newTestFactory()
	s := NewSlice(tp.p, tp.v("x", "int"), tp.v("y", "int"), tp.v("z", "int"))

	for range 3 {
		l := f.InstantiateLinearTernary(s)
		require.NotNil(t, l)
		assert.Equal(t, Active, l.State())
	}
	assert.Zero(t, f.Counters.ImpliedNonInstantiated.Load())
}

func TestSuppression_DifferentSequences(t *testing.T) {
	tp := newTestPoint(t)
	a, b, i := tp.v("a", "int[]"), tp.v("b", "int[]"), tp.v("i", "int")
	pre := tp.must(tp.p.DeriveSubsequence(a, i, 0, true))
	suf := tp.must(tp.p.DeriveSubsequence(b, i, 1, false))
	s := NewSlice(tp.p,
		tp.must(tp.p.DeriveSum(pre)),
		tp.must(tp.p.DeriveSum(suf)),
		tp.must(tp.p.DeriveSum(a)))

	f := newTestFactory()
	assert.NotNil(t, f.InstantiateLinearTernary(s))
	assert.Zero(t, f.Counters.ImpliedNonInstantiated.Load())
}

func TestSuppression_DefaultCounters(t *testing.T) {
	sp := newSumsPoint(t)
	f := &Factory{Config: DefaultConfig()}

	before := DefaultCounters.ImpliedNonInstantiated.Load()
	assert.Nil(t, f.InstantiateLinearTernary(NewSlice(sp.p, sp.sumPrefix(0), sp.sumSuffix(1), sp.sumWhole())))
	assert.Equal(t, before+1, DefaultCounters.ImpliedNonInstantiated.Load())
}
