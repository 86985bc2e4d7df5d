package proglang

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
)

// Domain prefixes for content-addressed array identity.
// Version suffix enables future encoding migration.
const (
	DomainIntArray    = "invgen/intarray/v1"
	DomainFloatArray  = "invgen/floatarray/v1"
	DomainStringArray = "invgen/stringarray/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	var sum [sha256.Size]byte
	h.Sum(sum[:0])
	return sum
}

// Interner content-hash-conses array values so that identical contents
// share one backing array. Interned arrays must be treated as immutable.
//
// Thread-safety: safe for concurrent use. Racing inserts of the same
// contents resolve through LoadOrStore; every caller gets the winner.
type Interner struct {
	arrays sync.Map // [32]byte -> Value
	hits   atomic.Int64
	misses atomic.Int64
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{}
}

// Stats returns the number of lookups that found an existing canonical
// array and the number that stored a new one.
func (in *Interner) Stats() (hits, misses int64) {
	return in.hits.Load(), in.misses.Load()
}

// IntArray returns the canonical array equal to a.
func (in *Interner) IntArray(a IntArray) IntArray {
	buf := make([]byte, 0, 8*len(a))
	for _, x := range a {
		buf = binary.BigEndian.AppendUint64(buf, uint64(x))
	}
	return intern(in, hashWithDomain(DomainIntArray, buf), a)
}

// FloatArray returns the canonical array equal to a. NaNs are encoded by
// bit pattern, so arrays holding NaN intern like any other.
func (in *Interner) FloatArray(a FloatArray) FloatArray {
	buf := make([]byte, 0, 8*len(a))
	for _, x := range a {
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(x))
	}
	return intern(in, hashWithDomain(DomainFloatArray, buf), a)
}

// StringArray returns the canonical array equal to a. Each element is
// length-prefixed; null elements use a distinct tag byte.
func (in *Interner) StringArray(a StringArray) StringArray {
	var buf []byte
	for _, v := range a {
		s, ok := v.(String)
		if !ok {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, 1)
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	return intern(in, hashWithDomain(DomainStringArray, buf), a)
}

// intern stores v under key unless an equal value is already present.
// A key hit with different contents (a hash collision) returns v itself
// uninterned rather than aliasing unequal arrays.
func intern[A Value](in *Interner, key [sha256.Size]byte, v A) A {
	actual, loaded := in.arrays.LoadOrStore(key, v)
	if !loaded {
		in.misses.Add(1)
		return v
	}
	existing, ok := actual.(A)
	if !ok || !Equal(existing, v) {
		return v
	}
	in.hits.Add(1)
	return existing
}
