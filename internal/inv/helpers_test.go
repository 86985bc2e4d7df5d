package inv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/ppt"
	"github.com/roach88/invgen/internal/proglang"
)

// testPoint declares variables by name and type on a fresh point.
type testPoint struct {
	t   *testing.T
	reg *proglang.Registry
	p   *ppt.Point
}

func newTestPoint(t *testing.T) *testPoint {
	t.Helper()
	return &testPoint{t: t, reg: proglang.NewRegistry(), p: ppt.NewPoint("P")}
}

func (tp *testPoint) v(name, typ string) *ppt.VarInfo {
	tp.t.Helper()
	v, err := tp.p.AddVar(tp.reg, name, typ)
	require.NoError(tp.t, err)
	return v
}

func (tp *testPoint) must(v *ppt.VarInfo, err error) *ppt.VarInfo {
	tp.t.Helper()
	require.NoError(tp.t, err)
	return v
}

func newTestFactory() *Factory {
	f := NewFactory(DefaultConfig())
	f.Counters = &Counters{}
	return f
}

func ints(xs ...int64) []proglang.Value {
	out := make([]proglang.Value, len(xs))
	for i, x := range xs {
		out[i] = proglang.Int(x)
	}
	return out
}
