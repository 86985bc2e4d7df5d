package proglang

import (
	"errors"
	"fmt"
)

// ParseError is a fatal error raised while parsing a type or a value.
//
// Parse errors signal either malformed input that cannot be recovered or a
// capability gap (a base type or depth the parser does not cover). Either
// way they abort the enclosing ingestion call.
type ParseError struct {
	// Code identifies the error category.
	Code ParseErrorCode

	// Type is the formatted type the value was parsed against.
	Type string

	// Text is the offending input, if any.
	Text string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause (e.g. from strconv).
	Err error
}

// ParseErrorCode categorizes parse errors.
type ParseErrorCode string

const (
	// ErrCodeUnsupportedType indicates a base type or depth with no parser.
	ErrCodeUnsupportedType ParseErrorCode = "UNSUPPORTED_TYPE"

	// ErrCodeMalformedValue indicates text that cannot be read as the type.
	ErrCodeMalformedValue ParseErrorCode = "MALFORMED_VALUE"

	// ErrCodeNotAnArray indicates an array operation on a scalar type.
	ErrCodeNotAnArray ParseErrorCode = "NOT_AN_ARRAY"
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s (type=%s", e.Code, e.Message, e.Type)
	if e.Text != "" {
		msg += fmt.Sprintf(", value=%q", e.Text)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsUnsupportedType returns true if err is an unsupported-type parse error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedType(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeUnsupportedType
	}
	return false
}

// IsMalformed returns true if err is a malformed-value parse error.
func IsMalformed(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeMalformedValue
	}
	return false
}

func unsupported(t *Type, text string) *ParseError {
	return &ParseError{
		Code:    ErrCodeUnsupportedType,
		Type:    t.String(),
		Text:    text,
		Message: "cannot parse a value of this type",
	}
}

func malformed(t *Type, text, msg string, err error) *ParseError {
	return &ParseError{
		Code:    ErrCodeMalformedValue,
		Type:    t.String(),
		Text:    text,
		Message: msg,
		Err:     err,
	}
}
