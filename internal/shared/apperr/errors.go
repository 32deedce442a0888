// Package apperr defines the application error taxonomy and its mapping to HTTP status codes.
// Components return these typed failures; only transport handlers translate them to the wire.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected failure. Its detail is never shown to clients.
	KindInternal Kind = iota
	// KindValidation is bad input shape or length.
	KindValidation
	// KindAuthentication is a missing, invalid or expired credential.
	KindAuthentication
	// KindAuthorization is a valid principal without sufficient rights.
	KindAuthorization
	// KindNotFound is an absent resource.
	KindNotFound
)

// Error is a classified application error.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a new validation error with the given client-facing detail.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// Authentication returns a new authentication error.
func Authentication(detail string) *Error {
	return &Error{Kind: KindAuthentication, Detail: detail}
}

// Authorization returns a new authorization error.
func Authorization(detail string) *Error {
	return &Error{Kind: KindAuthorization, Detail: detail}
}

// NotFound returns a new not-found error.
func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// Internal wraps err as an internal error.
func Internal(detail string, err error) *Error {
	return &Error{Kind: KindInternal, Detail: detail, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
// Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// DetailOf returns the client-facing detail of err, or fallback for internal errors.
func DetailOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Detail
	}
	return fallback
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
