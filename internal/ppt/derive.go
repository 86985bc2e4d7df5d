package ppt

import (
	"fmt"
	"strconv"

	"github.com/roach88/invgen/internal/proglang"
)

// Derivation is a sealed interface over the derived-variable kinds the
// engine understands. Only *SequenceSum, *SequenceSubsequence and
// *SequenceSubscript implement it.
type Derivation interface {
	// Sources returns the variables the derivation reads.
	Sources() []*VarInfo

	// Compute derives the value from vals, indexed by VarInfo.Index.
	// Returns false if a source is missing or an index is out of range;
	// the derived variable is then nonsensical for this sample.
	Compute(vals []proglang.Value) (proglang.Value, bool)

	derivation() // Sealed
}

// SequenceSum is sum(Base).
type SequenceSum struct {
	Base *VarInfo
}

func (*SequenceSum) derivation() {}

// Sources implements Derivation.
func (d *SequenceSum) Sources() []*VarInfo { return []*VarInfo{d.Base} }

// Compute implements Derivation. Integer sums wrap on overflow.
func (d *SequenceSum) Compute(vals []proglang.Value) (proglang.Value, bool) {
	switch seq := vals[d.Base.Index].(type) {
	case proglang.IntArray:
		var sum int64
		for _, x := range seq {
			sum += x
		}
		return proglang.Int(sum), true
	case proglang.FloatArray:
		var sum float64
		for _, x := range seq {
			sum += x
		}
		return proglang.Float(sum), true
	}
	return nil, false
}

// SequenceSubsequence is Seq[0..Index+Shift] when FromStart, otherwise
// Seq[Index+Shift..]. Bounds are inclusive.
type SequenceSubsequence struct {
	Seq       *VarInfo
	Index     *VarInfo
	Shift     int
	FromStart bool
}

func (*SequenceSubsequence) derivation() {}

// Sources implements Derivation.
func (d *SequenceSubsequence) Sources() []*VarInfo { return []*VarInfo{d.Seq, d.Index} }

// Compute implements Derivation. Prefixes may end at -1 and suffixes may
// start at len(seq); both yield the empty sequence.
func (d *SequenceSubsequence) Compute(vals []proglang.Value) (proglang.Value, bool) {
	i, ok := vals[d.Index.Index].(proglang.Int)
	if !ok {
		return nil, false
	}
	bound := int64(i) + int64(d.Shift)

	switch seq := vals[d.Seq.Index].(type) {
	case proglang.IntArray:
		lo, hi, ok := subsequenceBounds(len(seq), bound, d.FromStart)
		if !ok {
			return nil, false
		}
		return seq[lo:hi:hi], true
	case proglang.FloatArray:
		lo, hi, ok := subsequenceBounds(len(seq), bound, d.FromStart)
		if !ok {
			return nil, false
		}
		return seq[lo:hi:hi], true
	case proglang.StringArray:
		lo, hi, ok := subsequenceBounds(len(seq), bound, d.FromStart)
		if !ok {
			return nil, false
		}
		return seq[lo:hi:hi], true
	}
	return nil, false
}

func subsequenceBounds(n int, bound int64, fromStart bool) (lo, hi int, ok bool) {
	if fromStart {
		if bound < -1 || bound >= int64(n) {
			return 0, 0, false
		}
		return 0, int(bound) + 1, true
	}
	if bound < 0 || bound > int64(n) {
		return 0, 0, false
	}
	return int(bound), n, true
}

// SequenceSubscript is Seq[Index+Shift].
type SequenceSubscript struct {
	Seq   *VarInfo
	Index *VarInfo
	Shift int
}

func (*SequenceSubscript) derivation() {}

// Sources implements Derivation.
func (d *SequenceSubscript) Sources() []*VarInfo { return []*VarInfo{d.Seq, d.Index} }

// Compute implements Derivation.
func (d *SequenceSubscript) Compute(vals []proglang.Value) (proglang.Value, bool) {
	i, ok := vals[d.Index.Index].(proglang.Int)
	if !ok {
		return nil, false
	}
	at := int64(i) + int64(d.Shift)

	switch seq := vals[d.Seq.Index].(type) {
	case proglang.IntArray:
		if at < 0 || at >= int64(len(seq)) {
			return nil, false
		}
		return proglang.Int(seq[at]), true
	case proglang.FloatArray:
		if at < 0 || at >= int64(len(seq)) {
			return nil, false
		}
		return proglang.Float(seq[at]), true
	case proglang.StringArray:
		if at < 0 || at >= int64(len(seq)) {
			return nil, false
		}
		return seq[at], true
	}
	return nil, false
}

// DeriveSum declares sum(seq).
func (p *Point) DeriveSum(seq *VarInfo) (*VarInfo, error) {
	if seq.RepType.Dimensions() != 1 || !(seq.RepType.BaseIsIntegral() || seq.RepType.BaseIsFloat()) {
		return nil, fmt.Errorf("ppt %s: cannot sum %s of type %s", p.Name, seq.Name, seq.RepType)
	}
	elem, err := seq.RepType.ElementType()
	if err != nil {
		return nil, err
	}
	return p.add(&VarInfo{
		Name:     "sum(" + seq.Name + ")",
		FileType: elem,
		RepType:  elem,
		Derived:  &SequenceSum{Base: seq},
	})
}

// DeriveSubsequence declares seq[0..index+shift] (fromStart) or
// seq[index+shift..].
func (p *Point) DeriveSubsequence(seq, index *VarInfo, shift int, fromStart bool) (*VarInfo, error) {
	if err := p.checkIndexed(seq, index); err != nil {
		return nil, err
	}
	name := seq.Name + "[" + indexExpr(index.Name, shift) + "..]"
	if fromStart {
		name = seq.Name + "[0.." + indexExpr(index.Name, shift) + "]"
	}
	return p.add(&VarInfo{
		Name:     name,
		FileType: seq.FileType,
		RepType:  seq.RepType,
		Derived:  &SequenceSubsequence{Seq: seq, Index: index, Shift: shift, FromStart: fromStart},
	})
}

// DeriveSubscript declares seq[index+shift].
func (p *Point) DeriveSubscript(seq, index *VarInfo, shift int) (*VarInfo, error) {
	if err := p.checkIndexed(seq, index); err != nil {
		return nil, err
	}
	elem, err := seq.RepType.ElementType()
	if err != nil {
		return nil, err
	}
	return p.add(&VarInfo{
		Name:     seq.Name + "[" + indexExpr(index.Name, shift) + "]",
		FileType: elem,
		RepType:  elem,
		Derived:  &SequenceSubscript{Seq: seq, Index: index, Shift: shift},
	})
}

func (p *Point) checkIndexed(seq, index *VarInfo) error {
	if seq.RepType.Dimensions() != 1 {
		return fmt.Errorf("ppt %s: %s of type %s is not a sequence", p.Name, seq.Name, seq.RepType)
	}
	if !index.RepType.IsIndex() {
		return fmt.Errorf("ppt %s: %s of type %s is not an index", p.Name, index.Name, index.RepType)
	}
	return nil
}

func indexExpr(name string, shift int) string {
	switch {
	case shift == 0:
		return name
	case shift > 0:
		return name + "+" + strconv.Itoa(shift)
	default:
		return name + strconv.Itoa(shift)
	}
}
