package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeUnknownSwitch indicates a name that is not a known switch.
	ErrCodeUnknownSwitch ErrorCode = "UNKNOWN_SWITCH"

	// ErrCodeBadValue indicates a value of the wrong type or out of range.
	ErrCodeBadValue ErrorCode = "BAD_VALUE"

	// ErrCodeLoadFailed indicates an unreadable or invalid config file.
	ErrCodeLoadFailed ErrorCode = "LOAD_FAILED"
)

// Error is a configuration error. Pos is set for CUE files when known.
type Error struct {
	Code    ErrorCode
	Switch  string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Switch != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Switch, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownSwitch returns true if err is an unknown-switch error.
func IsUnknownSwitch(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeUnknownSwitch
}

// IsBadValue returns true if err is a bad-value error.
func IsBadValue(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeBadValue
}

func badValue(name string, v any, kind Kind) *Error {
	return &Error{
		Code:    ErrCodeBadValue,
		Switch:  name,
		Message: fmt.Sprintf("%v (%T) is not a valid %s", v, v, kind),
	}
}
