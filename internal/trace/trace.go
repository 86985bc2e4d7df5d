// Package trace reads the line-oriented sample trace format:
//
//	# comment
//	ppt Stack.push(int):::EXIT
//	  var a int[]
//	  var i int
//	  derive prefix a i -1
//	  derive sum a[0..i-1]
//	sample Stack.push(int):::EXIT 2
//	  a [1 2 3]
//	  i 1
//
// A "ppt" block declares a program point, its observed variables and the
// derived variables computed from them. A "sample" block assigns value text
// to some of the point's observed variables; variables left out are
// nonsensical for that sample. The optional count after the point name says
// how many identical occurrences the sample stands for. Blocks end at the
// next directive or a blank line.
//
// Values are kept as text; parsing them is governed by the variable's type
// and happens during ingestion.
package trace

import (
	"fmt"
)

// Derivation kinds accepted by "derive".
const (
	DeriveSum       = "sum"
	DerivePrefix    = "prefix"
	DeriveSuffix    = "suffix"
	DeriveSubscript = "subscript"
)

// Trace is a parsed trace: point declarations and samples in file order.
type Trace struct {
	Points  []*Decl
	Samples []*Sample
}

// Point returns the declaration with the given name.
func (t *Trace) Point(name string) (*Decl, bool) {
	for _, d := range t.Points {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Decl declares a program point.
type Decl struct {
	Name    string
	Vars    []VarDecl
	Derives []DeriveDecl
	Line    int
}

// VarDecl declares an observed variable.
type VarDecl struct {
	Name string
	Type string
	Line int
}

// DeriveDecl declares a derived variable. Sum has one argument (the
// sequence); the others have the sequence and the index variable.
type DeriveDecl struct {
	Kind  string
	Args  []string
	Shift int
	Line  int
}

// Sample is one observed tuple at a point.
type Sample struct {
	Point  string
	Count  int
	Values []Assignment
	Line   int
}

// Assignment binds value text to a variable.
type Assignment struct {
	Var  string
	Text string
	Line int
}

// Lookup returns the value text assigned to name.
func (s *Sample) Lookup(name string) (string, bool) {
	for _, a := range s.Values {
		if a.Var == name {
			return a.Text, true
		}
	}
	return "", false
}

// SyntaxError reports a malformed trace line.
type SyntaxError struct {
	File    string
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
