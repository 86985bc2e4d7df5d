// Package proglang provides the canonical value-type model for invgen.
//
// Every variable observed in a trace has a declared (file) type and a
// representation type. Types are hash-consed: a Registry hands out exactly
// one *Type per (base, dims) pair, so callers compare types with ==.
//
// The package also owns the text -> value parser used when ingesting trace
// samples. Parsed values are members of the sealed Value interface; array
// values are content-interned so identical contents share storage.
//
// Key constraints:
//   - Registry is append-only and safe for concurrent use
//   - Types are never destroyed once created
//   - Unsupported base types are fatal (*ParseError), never coerced
//   - Recoverable malformations (unquoted strings, unbracketed arrays)
//     log a warning and continue
package proglang
