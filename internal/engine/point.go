package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/ppt"
	"github.com/roach88/invgen/internal/proglang"
	"github.com/roach88/invgen/internal/trace"
)

// PointState is one program point and every candidate invariant over its
// variables. It is owned by a single goroutine.
type PointState struct {
	Point  *ppt.Point
	Slices []*inv.Slice

	// Suppressed counts ternary tuples never instantiated because they
	// restate a derived-sum identity.
	Suppressed int

	samples int
	logger  *slog.Logger
	vals    []proglang.Value
	tuple   []proglang.Value
}

// NewPoint declares a program point from its trace declaration and
// instantiates the candidate invariants over it:
//   - one unary slice per integral scalar
//   - one binary slice per unordered pair of integral sequences
//   - one ternary slice per unordered triple of integral scalars
//
// Slices left without invariants (every family disabled or suppressed) are
// dropped.
func (e *Engine) NewPoint(decl *trace.Decl) (*PointState, error) {
	p := ppt.NewPoint(decl.Name)
	for _, vd := range decl.Vars {
		if _, err := p.AddVar(e.registry, vd.Name, vd.Type); err != nil {
			return nil, badDeclaration(decl.Name, vd.Line, vd.Name, err)
		}
	}
	for _, dd := range decl.Derives {
		if err := derive(p, dd); err != nil {
			return nil, badDeclaration(decl.Name, dd.Line, dd.Kind+" "+fmt.Sprint(dd.Args), err)
		}
	}

	counters := &inv.Counters{}
	factory := *e.factory
	factory.Counters = counters

	ps := &PointState{
		Point:  p,
		logger: e.logger.With("ppt", decl.Name),
		vals:   make([]proglang.Value, len(p.Vars)),
	}

	var scalars, seqs []*ppt.VarInfo
	for _, v := range p.Vars {
		switch {
		case v.RepType.IsScalar():
			scalars = append(scalars, v)
		case v.RepType.ElementIsIntegral():
			seqs = append(seqs, v)
		}
	}

	var candidates []*inv.Slice
	for _, x := range scalars {
		candidates = append(candidates, inv.NewSlice(p, x))
	}
	for i := range seqs {
		for j := i + 1; j < len(seqs); j++ {
			candidates = append(candidates, inv.NewSlice(p, seqs[i], seqs[j]))
		}
	}
	for i := range scalars {
		for j := i + 1; j < len(scalars); j++ {
			for k := j + 1; k < len(scalars); k++ {
				candidates = append(candidates, inv.NewSlice(p, scalars[i], scalars[j], scalars[k]))
			}
		}
	}
	for _, s := range candidates {
		n, err := factory.Instantiate(s)
		if err != nil {
			return nil, &IngestError{Code: ErrCodeBadDeclaration, Message: "cannot instantiate invariants", Point: decl.Name, Line: decl.Line, Err: err}
		}
		if n > 0 {
			ps.Slices = append(ps.Slices, s)
		}
	}

	suppressed := counters.ImpliedNonInstantiated.Load()
	e.counters.ImpliedNonInstantiated.Add(suppressed)
	ps.Suppressed = int(suppressed)

	ps.logger.Debug("declared program point",
		"vars", len(p.Vars),
		"slices", len(ps.Slices),
		"suppressed", ps.Suppressed)
	return ps, nil
}

func derive(p *ppt.Point, dd trace.DeriveDecl) error {
	args := make([]*ppt.VarInfo, len(dd.Args))
	for i, name := range dd.Args {
		v, ok := p.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown variable %q", name)
		}
		args[i] = v
	}
	var err error
	switch dd.Kind {
	case trace.DeriveSum:
		_, err = p.DeriveSum(args[0])
	case trace.DerivePrefix:
		_, err = p.DeriveSubsequence(args[0], args[1], dd.Shift, true)
	case trace.DeriveSuffix:
		_, err = p.DeriveSubsequence(args[0], args[1], dd.Shift, false)
	case trace.DeriveSubscript:
		_, err = p.DeriveSubscript(args[0], args[1], dd.Shift)
	default:
		err = fmt.Errorf("unknown derivation %q", dd.Kind)
	}
	return err
}

// Samples is the weighted number of samples ingested.
func (ps *PointState) Samples() int { return ps.samples }

// Ingest parses one sample, computes derived variables and feeds every
// slice whose variables all have values. Absent arrays and unassigned or
// out-of-range variables make a slice skip the sample.
func (ps *PointState) Ingest(s *trace.Sample) error {
	clear(ps.vals)
	for _, a := range s.Values {
		vi, ok := ps.Point.Lookup(a.Var)
		if !ok || vi.IsDerived() {
			return &IngestError{
				Code:    ErrCodeUnknownVariable,
				Message: fmt.Sprintf("%s is not an observed variable", a.Var),
				Point:   ps.Point.Name,
				Line:    a.Line,
				Var:     a.Var,
			}
		}
		v, err := vi.RepType.ParseValue(a.Text)
		if err != nil {
			return parseFailed(ps.Point.Name, a.Line, a.Var, err)
		}
		ps.vals[vi.Index] = v
	}
	for _, vi := range ps.Point.Vars {
		if vi.IsDerived() {
			if v, ok := vi.Derived.Compute(ps.vals); ok {
				ps.vals[vi.Index] = v
			}
		}
	}

	ps.samples += s.Count
	for _, sl := range ps.Slices {
		if tuple, ok := ps.tupleFor(sl); ok {
			sl.Add(tuple, s.Count)
		}
	}
	return nil
}

func (ps *PointState) tupleFor(sl *inv.Slice) ([]proglang.Value, bool) {
	ps.tuple = ps.tuple[:0]
	for _, vi := range sl.Vars {
		v := ps.vals[vi.Index]
		if v == nil {
			return nil, false
		}
		if _, null := v.(proglang.Null); null {
			return nil, false
		}
		ps.tuple = append(ps.tuple, v)
	}
	return ps.tuple, true
}

// Invariants returns every invariant in slice order, falsified ones
// included.
func (ps *PointState) Invariants() []inv.Invariant {
	var all []inv.Invariant
	for _, s := range ps.Slices {
		all = append(all, s.Invs...)
	}
	return all
}

// Prune drops falsified invariants and returns how many were dropped.
func (ps *PointState) Prune() int {
	n := 0
	for _, s := range ps.Slices {
		n += s.Prune()
	}
	return n
}

// LinearTernaries returns the active linear relations that mention the
// named variable.
func (ps *PointState) LinearTernaries(name string) []*inv.LinearTernary {
	vi, ok := ps.Point.Lookup(name)
	if !ok {
		return nil
	}
	return inv.FindAllLinearTernary(ps.Slices, vi)
}
