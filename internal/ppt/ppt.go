// Package ppt models program points: the fixed variable context at one
// instrumented location, and the read-only catalog of derived variables
// (sums, subsequences, subscripts) computed from observed ones.
//
// Derivations are fixed when a point is declared and never mutated; the
// inference engine only reads them, to compute derived values and to
// recognize algebraic redundancy among sibling invariants.
package ppt

import (
	"fmt"

	"github.com/roach88/invgen/internal/proglang"
)

// VarInfo describes one variable at a program point.
type VarInfo struct {
	// Name is the display name, e.g. "x", "sum(a[0..i])".
	Name string

	// FileType is the declared type as it appears in the trace.
	FileType *proglang.Type

	// RepType is the internal representation type used for parsing values.
	RepType *proglang.Type

	// Derived is nil for observed variables.
	Derived Derivation

	// Index is the position of the variable in its Point.Vars.
	Index int
}

// IsDerived reports whether the variable is computed from others.
func (v *VarInfo) IsDerived() bool {
	return v.Derived != nil
}

// DerivedSubsequenceOf returns the sequence v is a subsequence of, or nil
// if v is not a derived subsequence.
func (v *VarInfo) DerivedSubsequenceOf() *VarInfo {
	if sub, ok := v.Derived.(*SequenceSubsequence); ok {
		return sub.Seq
	}
	return nil
}

// SumBase returns the summed sequence if v is sum(...), or nil.
func (v *VarInfo) SumBase() *VarInfo {
	if sum, ok := v.Derived.(*SequenceSum); ok {
		return sum.Base
	}
	return nil
}

func (v *VarInfo) String() string {
	return v.Name
}

// Point is a program point: a name plus an ordered variable context.
type Point struct {
	Name string
	Vars []*VarInfo

	byName map[string]*VarInfo
}

// NewPoint creates an empty program point.
func NewPoint(name string) *Point {
	return &Point{
		Name:   name,
		byName: make(map[string]*VarInfo),
	}
}

// Lookup returns the variable with the given name.
func (p *Point) Lookup(name string) (*VarInfo, bool) {
	v, ok := p.byName[name]
	return v, ok
}

// AddVar declares an observed variable. The representation type is derived
// from the file type with RepParse and ToRepType.
func (p *Point) AddVar(reg *proglang.Registry, name, fileType string) (*VarInfo, error) {
	ft := reg.Parse(fileType)
	rt := reg.RepParse(fileType).ToRepType()
	return p.add(&VarInfo{Name: name, FileType: ft, RepType: rt})
}

func (p *Point) add(v *VarInfo) (*VarInfo, error) {
	if _, dup := p.byName[v.Name]; dup {
		return nil, fmt.Errorf("ppt %s: duplicate variable %q", p.Name, v.Name)
	}
	v.Index = len(p.Vars)
	p.Vars = append(p.Vars, v)
	p.byName[v.Name] = v
	return v, nil
}
