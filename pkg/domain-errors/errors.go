// Package domainerrors defines the error vocabulary shared by services and
// HTTP handlers. Services create or wrap errors with a stable Code; the HTTP
// layer translates codes into status codes and response bodies without ever
// inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Code values double as the machine-readable
// "error" field in HTTP error responses.
type Code string

const (
	// CodeBadRequest marks a request body that could not be decoded.
	CodeBadRequest Code = "bad_request"

	// CodeValidation marks a well-formed request with invalid field values.
	CodeValidation Code = "validation_error"

	// CodeNotFound marks a lookup that matched nothing.
	CodeNotFound Code = "not_found"

	// CodeResolutionFailed marks a district lookup the resolver rejected:
	// malformed ZIP, no results, or no congressional district in the results.
	CodeResolutionFailed Code = "resolution_failed"

	// CodeUpstreamUnavailable marks a failure to reach or parse an upstream
	// government data source.
	CodeUpstreamUnavailable Code = "upstream_unavailable"

	// CodeExplainFailed marks a failed or rejected model completion.
	CodeExplainFailed Code = "explain_failed"

	// CodeTimeout marks an operation cancelled by deadline.
	CodeTimeout Code = "timeout"

	// CodeInternal marks unexpected internal failures. Messages carrying this
	// code are never echoed to clients.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a stable code and a human-readable message.
// The wrapped cause, when present, is reachable through errors.Unwrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
// A nil err yields the same result as New.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the domain code from err, walking the wrap chain.
// Non-domain errors report CodeInternal.
func CodeOf(err error) Code {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given domain code.
func Is(err error, code Code) bool {
	var dErr *Error
	return errors.As(err, &dErr) && dErr.Code == code
}
