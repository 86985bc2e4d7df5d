// Package inv implements candidate invariants: statistical hypotheses over
// a fixed tuple of variables at one program point, tested incrementally
// against a stream of samples.
//
// LIFECYCLE:
//
// Every invariant starts Active. The first contradicting sample moves it to
// Falsified through a single transition; the transition is terminal and all
// later samples are ignored. Disproof is expected behavior, never an error.
//
// FAMILIES:
//
// The set of families is closed:
//   - OneOfScalar: the value is one of at most K distinct constants
//   - PairwiseFunctionUnary: y[i] == f(x[i]) element-wise over two sequences
//   - LinearTernary: a*x + b*y + c*z + d == 0 over three scalars
//
// SUPPRESSION:
//
// LinearTernary instantiation refuses tuples whose linear relation merely
// restates how derived sums were built (sum(a[0..i]) + sum(a[i+1..]) ==
// sum(a), and sum(a[0..i]) - sum(a[0..i-1]) == a[i]). Each refusal is
// counted in Counters.ImpliedNonInstantiated.
//
// Slices and invariants are not safe for concurrent use. A program point and
// everything under it is owned by one goroutine.
package inv
