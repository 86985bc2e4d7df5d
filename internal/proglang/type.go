package proglang

import (
	"fmt"
	"strings"
)

// Base type names. Compare a type's base against these, e.g.
// t.Base() == proglang.BaseChar.
const (
	BaseBoolean = "boolean"
	BaseByte    = "byte"
	BaseChar    = "char"
	BaseDouble  = "double"
	BaseFloat   = "float"
	BaseInt     = "int"
	BaseLong    = "long"
	BaseShort   = "short"

	BaseObject  = "java.lang.Object"
	BaseString  = "java.lang.String"
	BaseInteger = "java.lang.Integer"

	// "hashcode", "address", and "pointer" are identical; "hashcode" is preferred.
	BaseHashcode = "hashcode"
	BaseAddress  = "address"
	BasePointer  = "pointer"
)

// Type is a canonical type descriptor: a base name plus an array depth.
//
// Types are only obtained from a Registry and are unique per (base, dims)
// within it, so == is the equality relation. Never construct a Type directly.
type Type struct {
	base       string
	dims       int
	pseudoDims int // dims, +1 if base is a registered list type
	reg        *Registry
}

// Base returns the base type name.
func (t *Type) Base() string { return t.base }

// Dimensions returns the array depth.
func (t *Type) Dimensions() int { return t.dims }

// PseudoDimensions is always at least Dimensions. It also counts one level
// for registered list types, so a List has dims 0 but pseudo-dims 1.
func (t *Type) PseudoDimensions() int { return t.pseudoDims }

// IsArray reports whether the type has at least one array dimension.
func (t *Type) IsArray() bool { return t.dims > 0 }

// IsPseudoArray reports whether the type is an array or a list type.
func (t *Type) IsPseudoArray() bool { return t.pseudoDims > 0 }

// Registry returns the registry that owns t.
func (t *Type) Registry() *Registry { return t.reg }

// ElementType returns the type of the elements of t, which may itself be an
// array when t is multidimensional. List types yield the generic object type.
func (t *Type) ElementType() (*Type, error) {
	if t.pseudoDims > t.dims {
		return t.reg.intern(BaseObject, 0), nil
	}
	if t.dims == 0 {
		return nil, &ParseError{
			Code:    ErrCodeNotAnArray,
			Type:    t.String(),
			Message: "element type of non-array type",
		}
	}
	return t.reg.intern(t.base, t.dims-1), nil
}

// ToRepType converts a file representation type to the internal
// representation type. Hashcodes, booleans and wide/narrow integers are all
// represented as int; the engine reasons about values, not declared widths.
func (t *Type) ToRepType() *Type {
	switch t.base {
	case BaseHashcode, BaseBoolean, BaseLong, BaseShort:
		return t.reg.intern(BaseInt, t.dims)
	}
	return t
}

// BaseIsPrimitive reports whether the base is a primitive type.
func (t *Type) BaseIsPrimitive() bool {
	switch t.base {
	case BaseBoolean, BaseByte, BaseChar, BaseDouble, BaseFloat, BaseInt, BaseLong, BaseShort:
		return true
	}
	return false
}

// IsPrimitive reports whether t is a primitive scalar.
func (t *Type) IsPrimitive() bool { return t.dims == 0 && t.BaseIsPrimitive() }

// BaseIsIntegral does not include boolean.
func (t *Type) BaseIsIntegral() bool {
	switch t.base {
	case BaseByte, BaseChar, BaseInt, BaseLong, BaseShort, BaseInteger:
		return true
	}
	return false
}

// IsIntegral reports whether t is an integral scalar.
func (t *Type) IsIntegral() bool { return t.dims == 0 && t.BaseIsIntegral() }

// ElementIsIntegral is cheaper than ElementType().IsIntegral().
func (t *Type) ElementIsIntegral() bool { return t.dims == 1 && t.BaseIsIntegral() }

// ElementIsFloat reports whether t is a one-dimensional float array.
func (t *Type) ElementIsFloat() bool { return t.dims == 1 && t.BaseIsFloat() }

// IsIndex reports whether t is sensible as an array index.
func (t *Type) IsIndex() bool { return t.IsIntegral() }

// IsScalar reports whether values of t are scalars for inference purposes.
func (t *Type) IsScalar() bool {
	if t.dims != 0 {
		return false
	}
	return t.BaseIsIntegral() || t.base == BaseHashcode || t.base == BaseBoolean
}

// BaseIsFloat reports whether the base is double or float.
func (t *Type) BaseIsFloat() bool { return t.base == BaseDouble || t.base == BaseFloat }

// IsFloat reports whether t is a float scalar.
func (t *Type) IsFloat() bool { return t.dims == 0 && t.BaseIsFloat() }

// BaseIsObject reports whether the base is neither numeric nor boolean.
func (t *Type) BaseIsObject() bool {
	return !t.BaseIsIntegral() && !t.BaseIsFloat() && t.base != BaseBoolean
}

// IsObject reports whether t is a non-array object type.
func (t *Type) IsObject() bool { return t.dims == 0 && t.BaseIsObject() }

// BaseIsString reports whether the base is java.lang.String.
func (t *Type) BaseIsString() bool { return t.base == BaseString }

// IsPointerFileRep reports whether t represents a pointer. Only meaningful
// for file representation types.
func (t *Type) IsPointerFileRep() bool { return t.base == BaseHashcode }

// ComparableOrSuperclassEitherWay reports whether the two types can be
// sensibly compared, or one cast to the other. Reflexive, not transitive.
func (t *Type) ComparableOrSuperclassEitherWay(other *Type) bool {
	if t == other {
		return true
	}
	if t.dims != other.dims {
		return false
	}
	if t.BaseIsIntegral() && other.BaseIsIntegral() {
		return true
	}
	// Object is castable to everything except booleans.
	return (t.base == BaseObject && other.BaseIsObject()) ||
		(other.base == BaseObject && t.BaseIsObject())
}

// ComparableOrSuperclassOf is like ComparableOrSuperclassEitherWay but
// directional: Object is a superclass of String, not the other way around.
// Transitive, not reflexive.
func (t *Type) ComparableOrSuperclassOf(other *Type) bool {
	if t == other {
		return true
	}
	if t.dims != other.dims {
		return false
	}
	if t.BaseIsIntegral() && other.BaseIsIntegral() {
		return true
	}
	return t.base == BaseObject && other.BaseIsObject()
}

// String formats t as base followed by one "[]" per dimension.
func (t *Type) String() string {
	if t.dims == 0 {
		return t.base
	}
	return t.base + strings.Repeat("[]", t.dims)
}

// GoString aids debugging output in test failures.
func (t *Type) GoString() string {
	return fmt.Sprintf("proglang.Type{%s dims=%d pseudo=%d}", t.base, t.dims, t.pseudoDims)
}
