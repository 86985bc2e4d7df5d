package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/ppt"
	"github.com/roach88/invgen/internal/proglang"
)

type fixture struct {
	t       *testing.T
	reg     *proglang.Registry
	p       *ppt.Point
	factory *inv.Factory
}

func newFixture(t *testing.T) *fixture {
	f := inv.NewFactory(inv.DefaultConfig())
	f.Counters = &inv.Counters{}
	return &fixture{t: t, reg: proglang.NewRegistry(), p: ppt.NewPoint("P"), factory: f}
}

func (f *fixture) slice(vars ...string) *inv.Slice {
	f.t.Helper()
	vis := make([]*ppt.VarInfo, len(vars))
	for i, name := range vars {
		vi, ok := f.p.Lookup(name)
		if !ok {
			var err error
			vi, err = f.p.AddVar(f.reg, name, "int")
			require.NoError(f.t, err)
		}
		vis[i] = vi
	}
	s := inv.NewSlice(f.p, vis...)
	_, err := f.factory.Instantiate(s)
	require.NoError(f.t, err)
	require.Len(f.t, s.Invs, 1)
	return s
}

func feed(s *inv.Slice, tuples ...[]int64) {
	for _, tup := range tuples {
		vals := make([]proglang.Value, len(tup))
		for i, x := range tup {
			vals[i] = proglang.Int(x)
		}
		s.Add(vals, 1)
	}
}

// line returns tuples on z == x + y with distinct x.
func line(n int) [][]int64 {
	out := make([][]int64, n)
	for i := range out {
		x, y := int64(i), int64(i*i)
		out[i] = []int64{x, y, x + y}
	}
	return out
}

func TestApply_OnlyActiveJustified(t *testing.T) {
	f := newFixture(t)

	justified := f.slice("x", "y", "z")
	feed(justified, line(6)...)

	unjustified := f.slice("a", "b", "c")
	feed(unjustified, line(2)...)

	falsified := f.slice("d", "e", "g")
	feed(falsified, line(5)...)
	feed(falsified, []int64{0, 0, 99})

	empty := f.slice("n")

	all := []inv.Invariant{justified.Invs[0], unjustified.Invs[0], falsified.Invs[0], empty.Invs[0]}
	kept, discarded := NewPipeline().Apply(all, 0.01)

	require.Len(t, kept, 1)
	assert.Same(t, justified.Invs[0], kept[0])
	assert.Empty(t, discarded)
}

func TestApply_EnoughSamples(t *testing.T) {
	f := newFixture(t)

	few := f.slice("x", "y", "z")
	feed(few, line(3)...)
	lt := few.Invs[0].(*inv.LinearTernary)
	require.True(t, lt.Fixed())

	p := NewPipeline(EnoughSamplesFilter{MinModified: 5})

	// A limit of 1 admits the fixed plane before min_triples is reached.
	kept, discarded := p.Apply([]inv.Invariant{lt}, 1)
	assert.Empty(t, kept)
	require.Len(t, discarded, 1)
	assert.Equal(t, "not enough modified samples (3 < 5)", lt.DiscardReason())
}

func TestEnoughSamplesFilter_ExemptsOneOf(t *testing.T) {
	f := newFixture(t)
	s := f.slice("x")
	feed(s, []int64{4})

	filter := EnoughSamplesFilter{MinModified: 5}
	assert.False(t, filter.ShouldDiscard(s.Invs[0]))

	kept, discarded := NewPipeline(filter).Apply(s.Invs, 0.01)
	assert.Len(t, kept, 1)
	assert.Empty(t, discarded)
	assert.Empty(t, s.Invs[0].DiscardReason())
}

func TestApply_FirstVetoWins(t *testing.T) {
	f := newFixture(t)
	s := f.slice("x")
	feed(s, []int64{1})

	var consulted []string
	veto := func(name string, discard bool) Filter {
		return Func{FilterName: name, Desc: name + " filter", Fn: func(inv.Invariant) bool {
			consulted = append(consulted, name)
			return discard
		}}
	}
	p := NewPipeline(veto("pass", false), veto("first", true), veto("second", true))

	_, discarded := p.Apply(s.Invs, 0.01)
	require.Len(t, discarded, 1)
	assert.Equal(t, []string{"pass", "first"}, consulted)
	assert.Equal(t, "first: first filter", discarded[0].DiscardReason())

	// The reason is recorded once; a later veto does not overwrite it.
	_, _ = NewPipeline(veto("again", true)).Apply(s.Invs, 0.01)
	assert.Equal(t, "first: first filter", s.Invs[0].DiscardReason())
}

func TestApply_PreservesOrder(t *testing.T) {
	f := newFixture(t)
	var all []inv.Invariant
	for _, name := range []string{"a", "b", "c", "d"} {
		s := f.slice(name)
		feed(s, []int64{1})
		all = append(all, s.Invs[0])
	}
	odd := Func{FilterName: "odd", Fn: func(i inv.Invariant) bool {
		name := i.Slice().Vars[0].Name
		return name == "b" || name == "d"
	}}

	kept, discarded := NewPipeline(odd).Apply(all, 0.01)
	assert.Equal(t, []inv.Invariant{all[0], all[2]}, kept)
	assert.Equal(t, []inv.Invariant{all[1], all[3]}, discarded)
}

func TestFromSettings(t *testing.T) {
	s := config.Defaults()
	filters := FromSettings(s).Filters()
	require.Len(t, filters, 1)
	assert.Equal(t, EnoughSamplesFilter{MinModified: 5}, filters[0])
	assert.Equal(t, "enough_samples", filters[0].Name())

	require.NoError(t, s.Override(config.FilterEnoughSamplesMinModified+"=9"))
	assert.Equal(t, EnoughSamplesFilter{MinModified: 9}, FromSettings(s).Filters()[0])

	require.NoError(t, s.Override(config.FilterEnoughSamplesEnabled+"=false"))
	assert.Empty(t, FromSettings(s).Filters())
}
