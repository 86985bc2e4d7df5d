package inv

import "github.com/roach88/invgen/internal/ppt"

// impliedBySumDerivation reports whether a linear relation over x, y, z
// would only restate how derived sums were constructed:
//
//	sum(a[0..i+k]) + sum(a[i+k+1..]) == sum(a)
//	sum(a[0..i+k]) - sum(a[0..i+k-1]) == a[i+k]
//	sum(a[i+k..]) - sum(a[i+k+1..]) == a[i+k]
func impliedBySumDerivation(x, y, z *ppt.VarInfo) bool {
	var summands []*ppt.VarInfo
	var other *ppt.VarInfo
	for _, v := range []*ppt.VarInfo{x, y, z} {
		if b := v.SumBase(); b != nil {
			summands = append(summands, b)
		} else {
			other = v
		}
	}
	switch len(summands) {
	case 3:
		return partitionsWhole(summands)
	case 2:
		return differsByBoundary(summands[0], summands[1], other)
	}
	return false
}

// partitionsWhole reports whether the summands are a whole sequence, a
// prefix of it, and the adjacent suffix.
func partitionsWhole(summands []*ppt.VarInfo) bool {
	seqOf := func(v *ppt.VarInfo) *ppt.VarInfo {
		if s := v.DerivedSubsequenceOf(); s != nil {
			return s
		}
		return v
	}
	seq := seqOf(summands[0])
	whole := false
	var prefix, suffix *ppt.SequenceSubsequence
	for _, v := range summands {
		if seqOf(v) != seq {
			return false
		}
		sub, ok := v.Derived.(*ppt.SequenceSubsequence)
		switch {
		case v == seq:
			whole = true
		case ok && sub.FromStart:
			prefix = sub
		case ok:
			suffix = sub
		}
	}
	return whole && prefix != nil && suffix != nil &&
		prefix.Index == suffix.Index &&
		prefix.Shift+1 == suffix.Shift
}

// differsByBoundary reports whether two subsequence sums of one sequence
// differ by exactly the element other subscripts.
func differsByBoundary(a, b, other *ppt.VarInfo) bool {
	elt, ok := other.Derived.(*ppt.SequenceSubscript)
	if !ok {
		return false
	}
	sa, aok := a.Derived.(*ppt.SequenceSubsequence)
	sb, bok := b.Derived.(*ppt.SequenceSubsequence)
	if !aok || !bok {
		return false
	}
	if sa.Seq != elt.Seq || sb.Seq != elt.Seq {
		return false
	}
	if sa.Index != elt.Index || sb.Index != elt.Index || sa.FromStart != sb.FromStart {
		return false
	}
	lo, hi := min(sa.Shift, sb.Shift), max(sa.Shift, sb.Shift)
	if hi != lo+1 {
		return false
	}
	if sa.FromStart {
		return hi == elt.Shift
	}
	return lo == elt.Shift
}
