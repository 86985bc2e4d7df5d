// Package config holds the named switches that tune inference: which
// invariant families are enabled, their thresholds, and engine limits.
//
// Settings start from defaults and may be loaded from a nested YAML or CUE
// file and overridden with "name=value" assignments. Nested keys flatten to
// dotted switch names:
//
//	inv:
//	  oneof:
//	    size: 3      # inv.oneof.size
//
// The engine only reads Settings; nothing in the inference path mutates them.
package config

// Switch names.
const (
	ProbabilityLimit               = "inv.probability_limit"
	OneOfEnabled                   = "inv.oneof.enabled"
	OneOfSize                      = "inv.oneof.size"
	PairwiseFunctionEnabled        = "inv.pairwise_function.enabled"
	PairwiseFunctionFunctions      = "inv.pairwise_function.functions"
	LinearTernaryEnabled           = "inv.linear_ternary.enabled"
	LinearTernaryMinTriples        = "inv.linear_ternary.min_triples"
	FilterEnoughSamplesEnabled     = "filter.enough_samples.enabled"
	FilterEnoughSamplesMinModified = "filter.enough_samples.min_modified"
	EngineWorkers                  = "engine.workers"
	ProglangListTypes              = "proglang.list_types"
)

// Kind is the value type of a switch.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindStrings
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStrings:
		return "strings"
	}
	return "unknown"
}

// Switch describes one configuration switch.
type Switch struct {
	Name        string
	Kind        Kind
	Default     any
	Description string
}

var switches = []Switch{
	{ProbabilityLimit, KindFloat, 0.01,
		"Invariants whose chance probability exceeds this limit are not reported."},
	{OneOfEnabled, KindBool, true,
		"Infer bounded-set membership over integral scalars."},
	{OneOfSize, KindInt, 5,
		"Maximum number of distinct values a one-of invariant holds."},
	{PairwiseFunctionEnabled, KindBool, true,
		"Infer element-wise function application between integral sequences."},
	{PairwiseFunctionFunctions, KindStrings, []string{"abs", "negate", "bitwiseComplement", "square"},
		"Registered functions tried for pairwise application, in order."},
	{LinearTernaryEnabled, KindBool, true,
		"Infer linear relations among three integral scalars."},
	{LinearTernaryMinTriples, KindInt, 5,
		"Modified samples a fixed plane needs before it is justified."},
	{FilterEnoughSamplesEnabled, KindBool, true,
		"Discard invariants lacking enough modified samples."},
	{FilterEnoughSamplesMinModified, KindInt, 5,
		"Minimum modified samples for the enough-samples filter."},
	{EngineWorkers, KindInt, 0,
		"Program points ingested in parallel; 0 means GOMAXPROCS."},
	{ProglangListTypes, KindStrings, []string{},
		"Class names treated as list implementors (one extra pseudo dimension)."},
}

var byName = func() map[string]Switch {
	m := make(map[string]Switch, len(switches))
	for _, sw := range switches {
		m[sw.Name] = sw
	}
	return m
}()

// Switches returns every known switch in declaration order.
func Switches() []Switch {
	return append([]Switch(nil), switches...)
}

// Lookup returns the switch with the given name.
func Lookup(name string) (Switch, bool) {
	sw, ok := byName[name]
	return sw, ok
}
