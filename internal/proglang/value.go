package proglang

import (
	"math"
	"slices"
)

// Value is a sealed interface over canonical sample values.
// Only Null, Int, Float, String, IntArray, FloatArray and StringArray
// implement it.
type Value interface {
	value() // Sealed
}

// Null is the untyped null: a null string, or an absent (null) array.
// An absent array is distinct from an empty one.
type Null struct{}

func (Null) value() {}

// Int is a scalar integral value. Booleans, chars and hashcodes are all
// represented as Int.
type Int int64

func (Int) value() {}

// Float is a scalar floating-point value.
type Float float64

func (Float) value() {}

// String is a scalar string value, NFC normalized.
type String string

func (String) value() {}

// IntArray is a one-dimensional integral array.
type IntArray []int64

func (IntArray) value() {}

// FloatArray is a one-dimensional floating-point array.
type FloatArray []float64

func (FloatArray) value() {}

// StringArray is a one-dimensional string array. Elements are String or Null.
type StringArray []Value

func (StringArray) value() {}

// Equal reports structural equality of two values. NaN equals NaN, so that
// a value always equals itself after a parse/format round trip.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && floatEqual(float64(x), float64(y))
	case String:
		y, ok := b.(String)
		return ok && x == y
	case IntArray:
		y, ok := b.(IntArray)
		return ok && (sameBacking(x, y) || slices.Equal(x, y))
	case FloatArray:
		y, ok := b.(FloatArray)
		return ok && (sameBacking(x, y) || slices.EqualFunc(x, y, floatEqual))
	case StringArray:
		y, ok := b.(StringArray)
		return ok && slices.EqualFunc(x, y, Equal)
	}
	return false
}

// EqualTuple reports element-wise equality of two value tuples.
func EqualTuple(a, b []Value) bool {
	return slices.EqualFunc(a, b, Equal)
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// sameBacking reports whether two slices share their first element, which
// for interned arrays means they are the same canonical array.
func sameBacking[E any](a, b []E) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
