package apperr

import (
	"errors"
	"fmt"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

func NotAParticipant(msg string) error {
	return New(CodeNotAParticipant, msg)
}

func InvalidTransition(msg string) error {
	return New(CodeInvalidTransition, msg)
}

func NoActiveMatch(msg string) error {
	return New(CodeNoActiveMatch, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}

// Unavailable wraps storage-layer faults the core does not recover from
// (connectivity, unexpected constraint violations).
func Unavailable(msg string, cause error) error {
	return Wrap(CodeUnavailable, msg, cause)
}

// CodeOf extracts the Code from any error in the chain, CodeUnknown for
// plain errors.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
