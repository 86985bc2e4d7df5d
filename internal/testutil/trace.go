package testutil

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/trace"
)

// TraceBuilder writes trace text fluently. Blocks are emitted in call
// order, so finish a point or sample before starting the next.
//
//	b := testutil.NewTraceBuilder()
//	b.Point("P").Var("x", "int").Var("a", "int[]")
//	b.Sample("P").Int("x", 3).Ints("a", 1, 2)
//	tr := b.Trace(t)
type TraceBuilder struct {
	sb strings.Builder
}

// NewTraceBuilder returns an empty builder.
func NewTraceBuilder() *TraceBuilder {
	return &TraceBuilder{}
}

func (b *TraceBuilder) line(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

// Comment adds a comment line.
func (b *TraceBuilder) Comment(text string) *TraceBuilder {
	b.line("# %s", text)
	return b
}

// Point starts a program point declaration.
func (b *TraceBuilder) Point(name string) *PointBuilder {
	b.line("ppt %s", name)
	return &PointBuilder{b: b}
}

// Sample starts a sample standing for one occurrence.
func (b *TraceBuilder) Sample(point string) *SampleBuilder {
	return b.SampleN(point, 1)
}

// SampleN starts a sample standing for count occurrences.
func (b *TraceBuilder) SampleN(point string, count int) *SampleBuilder {
	if count == 1 {
		b.line("sample %s", point)
	} else {
		b.line("sample %s %d", point, count)
	}
	return &SampleBuilder{b: b}
}

// String returns the trace text.
func (b *TraceBuilder) String() string {
	return b.sb.String()
}

// Trace parses the built text, failing the test on a syntax error.
func (b *TraceBuilder) Trace(t testing.TB) *trace.Trace {
	t.Helper()
	tr, err := trace.Read(strings.NewReader(b.String()))
	require.NoError(t, err, "built trace:\n%s", b.String())
	return tr
}

// PointBuilder adds declarations to a program point.
type PointBuilder struct {
	b *TraceBuilder
}

// Var declares an observed variable.
func (p *PointBuilder) Var(name, typ string) *PointBuilder {
	p.b.line("  var %s %s", name, typ)
	return p
}

// Sum declares sum(seq).
func (p *PointBuilder) Sum(seq string) *PointBuilder {
	p.b.line("  derive %s %s", trace.DeriveSum, seq)
	return p
}

// Prefix declares seq[0..index+shift].
func (p *PointBuilder) Prefix(seq, index string, shift int) *PointBuilder {
	p.b.line("  derive %s %s %s %d", trace.DerivePrefix, seq, index, shift)
	return p
}

// Suffix declares seq[index+shift..].
func (p *PointBuilder) Suffix(seq, index string, shift int) *PointBuilder {
	p.b.line("  derive %s %s %s %d", trace.DeriveSuffix, seq, index, shift)
	return p
}

// Subscript declares seq[index+shift].
func (p *PointBuilder) Subscript(seq, index string, shift int) *PointBuilder {
	p.b.line("  derive %s %s %s %d", trace.DeriveSubscript, seq, index, shift)
	return p
}

// SampleBuilder assigns values in a sample.
type SampleBuilder struct {
	b *TraceBuilder
}

// Set assigns raw value text.
func (s *SampleBuilder) Set(name, text string) *SampleBuilder {
	s.b.line("  %s %s", name, text)
	return s
}

// Int assigns an integer.
func (s *SampleBuilder) Int(name string, v int64) *SampleBuilder {
	return s.Set(name, strconv.FormatInt(v, 10))
}

// Ints assigns an integer array.
func (s *SampleBuilder) Ints(name string, vs ...int64) *SampleBuilder {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return s.Set(name, "["+strings.Join(parts, " ")+"]")
}
