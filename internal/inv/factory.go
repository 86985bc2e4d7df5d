package inv

import (
	"fmt"
	"sync"

	"github.com/roach88/invgen/internal/ppt"
)

// Config holds the family switches a Factory reads. It is never mutated
// by the package.
type Config struct {
	OneOfEnabled bool
	OneOfSize    int

	PairwiseEnabled   bool
	PairwiseFunctions []string

	LinearTernaryEnabled bool
	MinTriples           int
}

// DefaultConfig enables every family with default thresholds.
func DefaultConfig() Config {
	return Config{
		OneOfEnabled:         true,
		OneOfSize:            DefaultOneOfSize,
		PairwiseEnabled:      true,
		PairwiseFunctions:    []string{"abs", "negate", "bitwiseComplement", "square"},
		LinearTernaryEnabled: true,
		MinTriples:           DefaultMinTriples,
	}
}

// Factory instantiates candidate invariants over slices.
type Factory struct {
	Config Config

	// Functions resolves PairwiseFunctionUnary names. Nil means
	// BuiltinFunctions.
	Functions *FunctionRegistry

	// Counters receives diagnostic counts. Nil means DefaultCounters.
	Counters *Counters
}

// NewFactory returns a factory over cfg with builtin functions and the
// process-wide counters.
func NewFactory(cfg Config) *Factory {
	return &Factory{Config: cfg, Functions: BuiltinFunctions(), Counters: DefaultCounters}
}

var builtins = sync.OnceValue(BuiltinFunctions)

func (f *Factory) functions() *FunctionRegistry {
	if f.Functions == nil {
		return builtins()
	}
	return f.Functions
}

func (f *Factory) counters() *Counters {
	if f.Counters == nil {
		return DefaultCounters
	}
	return f.Counters
}

// Instantiate creates and attaches every applicable invariant for the
// slice's arity and variable types, returning how many were attached:
//   - arity 1, integral scalar: OneOfScalar
//   - arity 2, integral sequences: PairwiseFunctionUnary per configured
//     function, in both directions
//   - arity 3, integral scalars: LinearTernary, unless suppressed
func (f *Factory) Instantiate(s *Slice) (int, error) {
	n := 0
	switch {
	case s.Arity() == 1 && allScalar(s.Vars):
		if o := f.InstantiateOneOfScalar(s); o != nil {
			s.Attach(o)
			n++
		}
	case s.Arity() == 2 && allSequence(s.Vars):
		for _, name := range f.Config.PairwiseFunctions {
			for _, inverse := range []bool{false, true} {
				p, err := f.InstantiatePairwiseFunctionUnary(s, name, inverse)
				if err != nil {
					return n, err
				}
				if p != nil {
					s.Attach(p)
					n++
				}
			}
		}
	case s.Arity() == 3 && allScalar(s.Vars):
		if l := f.InstantiateLinearTernary(s); l != nil {
			s.Attach(l)
			n++
		}
	}
	return n, nil
}

func allScalar(vars []*ppt.VarInfo) bool {
	for _, v := range vars {
		if !v.RepType.IsScalar() {
			return false
		}
	}
	return true
}

func allSequence(vars []*ppt.VarInfo) bool {
	for _, v := range vars {
		if !v.RepType.ElementIsIntegral() {
			return false
		}
	}
	return true
}

// InstantiateOneOfScalar returns nil when the family is disabled.
func (f *Factory) InstantiateOneOfScalar(s *Slice) *OneOfScalar {
	if !f.Config.OneOfEnabled {
		return nil
	}
	limit := f.Config.OneOfSize
	if limit <= 0 {
		limit = DefaultOneOfSize
	}
	return &OneOfScalar{base: base{slice: s}, limit: limit}
}

// InstantiatePairwiseFunctionUnary returns nil when the family is disabled.
// An unknown function name is a configuration error.
func (f *Factory) InstantiatePairwiseFunctionUnary(s *Slice, name string, inverse bool) (*PairwiseFunctionUnary, error) {
	if !f.Config.PairwiseEnabled {
		return nil, nil
	}
	fn, ok := f.functions().Lookup(name)
	if !ok {
		return nil, fmt.Errorf("pairwise function %q is not registered", name)
	}
	return &PairwiseFunctionUnary{base: base{slice: s}, name: name, fn: fn, inverse: inverse}, nil
}

// InstantiateLinearTernary returns nil when the family is disabled or when
// the tuple restates a derived-sum identity; the latter is counted in
// Counters.ImpliedNonInstantiated.
func (f *Factory) InstantiateLinearTernary(s *Slice) *LinearTernary {
	if !f.Config.LinearTernaryEnabled {
		return nil
	}
	if impliedBySumDerivation(s.Vars[0], s.Vars[1], s.Vars[2]) {
		f.counters().ImpliedNonInstantiated.Add(1)
		return nil
	}
	minTriples := f.Config.MinTriples
	if minTriples <= 0 {
		minTriples = DefaultMinTriples
	}
	return &LinearTernary{base: base{slice: s}, minTriples: minTriples}
}
