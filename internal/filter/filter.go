// Package filter vetoes surviving, justified invariants that should still
// not be reported.
//
// Filters are independent predicates with no shared mutable state. A
// Pipeline applies them in order; the first filter that discards an
// invariant records its reason, and later filters are not consulted.
package filter

import (
	"fmt"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/inv"
)

// Filter decides whether an active, justified invariant is discarded.
type Filter interface {
	Name() string
	Description() string

	// ShouldDiscard must not mutate the invariant.
	ShouldDiscard(i inv.Invariant) bool
}

// Reasoner is implemented by filters that explain a discard. Filters
// without it are recorded by description.
type Reasoner interface {
	Reason(i inv.Invariant) string
}

// Func adapts a predicate to Filter.
type Func struct {
	FilterName string
	Desc       string
	Fn         func(inv.Invariant) bool
}

// Name implements Filter.
func (f Func) Name() string { return f.FilterName }

// Description implements Filter.
func (f Func) Description() string { return f.Desc }

// ShouldDiscard implements Filter.
func (f Func) ShouldDiscard(i inv.Invariant) bool { return f.Fn(i) }

// Pipeline is an ordered chain of filters.
type Pipeline struct {
	filters []Filter
}

// NewPipeline returns a pipeline applying filters in order.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{filters: filters}
}

// Filters returns the filters in application order.
func (p *Pipeline) Filters() []Filter {
	return append([]Filter(nil), p.filters...)
}

// Apply partitions the reportable candidates of invs. Falsified invariants
// and those not justified within limit are never reported and appear in
// neither result. Order is preserved.
func (p *Pipeline) Apply(invs []inv.Invariant, limit float64) (kept, discarded []inv.Invariant) {
	for _, i := range invs {
		if i.IsFalsified() || !i.Justified(limit) {
			continue
		}
		if f := p.veto(i); f != nil {
			i.SetDiscardReason(reason(f, i))
			discarded = append(discarded, i)
			continue
		}
		kept = append(kept, i)
	}
	return kept, discarded
}

func (p *Pipeline) veto(i inv.Invariant) Filter {
	for _, f := range p.filters {
		if f.ShouldDiscard(i) {
			return f
		}
	}
	return nil
}

func reason(f Filter, i inv.Invariant) string {
	if r, ok := f.(Reasoner); ok {
		return r.Reason(i)
	}
	return f.Name() + ": " + f.Description()
}

// EnoughSamplesFilter discards invariants with too few modified samples.
// OneOfScalar is exempt: an exact-value claim is meaningful even when it
// was seen only a few times.
type EnoughSamplesFilter struct {
	MinModified int
}

// Name implements Filter.
func (EnoughSamplesFilter) Name() string { return "enough_samples" }

// Description implements Filter.
func (EnoughSamplesFilter) Description() string {
	return "Suppress invariants which do not have enough samples"
}

// ShouldDiscard implements Filter.
func (f EnoughSamplesFilter) ShouldDiscard(i inv.Invariant) bool {
	if i.Kind() == inv.KindOneOfScalar {
		return false
	}
	return i.NumModified() < f.MinModified
}

// Reason implements Reasoner.
func (f EnoughSamplesFilter) Reason(i inv.Invariant) string {
	return fmt.Sprintf("not enough modified samples (%d < %d)", i.NumModified(), f.MinModified)
}

// FromSettings builds the default pipeline from configuration switches.
func FromSettings(s *config.Settings) *Pipeline {
	var filters []Filter
	if s.Bool(config.FilterEnoughSamplesEnabled) {
		filters = append(filters, EnoughSamplesFilter{MinModified: s.Int(config.FilterEnoughSamplesMinModified)})
	}
	return NewPipeline(filters...)
}
