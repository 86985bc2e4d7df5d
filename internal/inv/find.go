package inv

import "github.com/roach88/invgen/internal/ppt"

// FindLinearTernary returns the active LinearTernary over a ternary slice,
// or nil. A slice holds at most one.
func FindLinearTernary(s *Slice) *LinearTernary {
	if s.Arity() != 3 {
		return nil
	}
	for _, inv := range s.Invs {
		if lt, ok := inv.(*LinearTernary); ok && !lt.IsFalsified() {
			return lt
		}
	}
	return nil
}

// FindAllLinearTernary collects the active LinearTernary of every ternary
// slice that uses vi.
func FindAllLinearTernary(slices []*Slice, vi *ppt.VarInfo) []*LinearTernary {
	var result []*LinearTernary
	for _, s := range slices {
		if s.Arity() != 3 || !s.UsesVar(vi) {
			continue
		}
		if lt := FindLinearTernary(s); lt != nil {
			result = append(result, lt)
		}
	}
	return result
}
