// Package apperr defines the closed set of failures the API reports to callers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an Error. The set is closed: every failure surfaced to a caller
// maps onto exactly one of these.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Machine-readable codes for authentication failures.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingToken       = "missing_token"
	CodeInvalidToken       = "invalid_token"
	CodeExpiredToken       = "token_expired"
	CodeRevokedToken       = "token_revoked"
	CodeUnknownUser        = "unknown_user"
)

// Error is the tagged error value handed from services to the HTTP layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string][]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Validation reports malformed input; fields maps a field name to its messages.
func Validation(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Message: "request validation failed", Fields: fields}
}

// BadRequest reports malformed input that is not tied to a single field.
func BadRequest(message string) *Error {
	return &Error{Kind: KindValidation, Code: "bad_request", Message: message}
}

// Authentication reports a missing or unusable credential; code is one of the Code constants.
func Authentication(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// Forbidden reports an identified caller acting on something they do not own.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "forbidden", Message: message}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: message}
}

// Conflict reports a uniqueness clash, such as a phone already registered.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: "conflict", Message: message}
}

// RateLimited reports a caller over its request budget.
func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Code: "rate_limited", Message: "too many requests"}
}

// Internal wraps an unexpected failure. The cause is kept for logs and never
// rendered to the caller.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal server error", cause: cause}
}

// From returns err as an *Error, collapsing anything outside the taxonomy into
// an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return kind == KindInternal && err != nil
}

// Status maps a kind onto its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
