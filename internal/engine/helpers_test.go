package engine

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine returns an engine with isolated counters, a fixed run ID
// and the given overrides applied to default settings.
func newTestEngine(t *testing.T, overrides ...string) (*Engine, *inv.Counters) {
	t.Helper()
	s := config.Defaults()
	for _, o := range overrides {
		require.NoError(t, s.Override(o))
	}
	counters := &inv.Counters{}
	e := New(s,
		WithLogger(quietLogger()),
		WithCounters(counters),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-1")),
	)
	return e, counters
}

func formats(invs []inv.Invariant) []string {
	out := make([]string, len(invs))
	for i, x := range invs {
		out[i] = x.Format()
	}
	return out
}

// linearTrace declares P(x, y, z) with samples on z == x + y and y == x*x,
// so every unary hypothesis is falsified.
func linearTrace(b *testutil.TraceBuilder) {
	b.Point("P").Var("x", "int").Var("y", "int").Var("z", "int")
	for i := int64(0); i < 6; i++ {
		b.Sample("P").Int("x", i).Int("y", i*i).Int("z", i+i*i)
	}
}

// pairwiseTrace declares Q(a, b, c) with b == abs(a) element-wise and c
// constant.
func pairwiseTrace(b *testutil.TraceBuilder) {
	b.Point("Q").Var("a", "int[]").Var("b", "int[]").Var("c", "int")
	rows := [][]int64{{2, -3, 4}, {-5, 6, -7}, {8, -9, 10}, {-11, 12, -13}, {14, -15, 16}}
	for i, a := range rows {
		abs := make([]int64, len(a))
		for j, x := range a {
			abs[j] = max(x, -x)
		}
		count := 1
		if i == 2 {
			count = 3
		}
		b.SampleN("Q", count).Ints("a", a...).Ints("b", abs...).Int("c", 3)
	}
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})), &buf
}
