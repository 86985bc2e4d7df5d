package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/invgen/internal/proglang"
)

// IngestError is a fatal error while declaring a program point or ingesting
// one of its samples. It aborts the enclosing run.
//
// Self-falsification of an invariant is never an error; ingest errors mean
// the trace or configuration cannot be processed:
//   - Parse failure: a value does not match its variable's type
//   - Unknown variable: a sample assigns a variable the point lacks
//   - Bad declaration: a variable or derivation cannot be declared
type IngestError struct {
	// Code identifies the error category.
	Code IngestErrorCode

	// Message is a human-readable description.
	Message string

	// Point is the program point name.
	Point string

	// Line is the trace line of the offending declaration or assignment.
	Line int

	// Var is the variable involved, if any.
	Var string

	// Err is the underlying cause, if any.
	Err error
}

// IngestErrorCode categorizes ingest errors.
type IngestErrorCode string

const (
	// ErrCodeParseFailed indicates a value that cannot be parsed as its type.
	ErrCodeParseFailed IngestErrorCode = "PARSE_FAILED"

	// ErrCodeUnknownVariable indicates an assignment to an undeclared variable.
	ErrCodeUnknownVariable IngestErrorCode = "UNKNOWN_VARIABLE"

	// ErrCodeBadDeclaration indicates a variable or derivation that cannot
	// be declared.
	ErrCodeBadDeclaration IngestErrorCode = "BAD_DECLARATION"
)

// Error implements the error interface.
func (e *IngestError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (ppt=%s, line=%d)", e.Code, msg, e.Point, e.Line)
	}
	return fmt.Sprintf("%s: %s (ppt=%s)", e.Code, msg, e.Point)
}

// Unwrap returns the underlying cause.
func (e *IngestError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is a value parse failure. Matches both
// IngestError with ErrCodeParseFailed and a bare proglang.ParseError.
func IsParseError(err error) bool {
	var ie *IngestError
	if errors.As(err, &ie) && ie.Code == ErrCodeParseFailed {
		return true
	}
	var pe *proglang.ParseError
	return errors.As(err, &pe)
}

// IsUnknownVariable returns true if err is an unknown-variable error.
func IsUnknownVariable(err error) bool {
	var ie *IngestError
	return errors.As(err, &ie) && ie.Code == ErrCodeUnknownVariable
}

func parseFailed(point string, line int, name string, err error) *IngestError {
	return &IngestError{
		Code:    ErrCodeParseFailed,
		Message: fmt.Sprintf("cannot parse value of %s", name),
		Point:   point,
		Line:    line,
		Var:     name,
		Err:     err,
	}
}

func badDeclaration(point string, line int, name string, err error) *IngestError {
	return &IngestError{
		Code:    ErrCodeBadDeclaration,
		Message: fmt.Sprintf("cannot declare %s", name),
		Point:   point,
		Line:    line,
		Var:     name,
		Err:     err,
	}
}
