// Package domain defines domain-level errors and the access policy for the auth feature.
package domain

import "suggestion_box/internal/shared/apperr"

// Domain errors for authentication and authorization.
var (
	// ErrEmailAlreadyRegistered is returned during registration when the email is taken.
	ErrEmailAlreadyRegistered = apperr.Validation("Email already registered")

	// ErrInvalidCredentials is returned by login for an unknown email or a wrong password.
	// Both cases share one error so callers cannot enumerate accounts.
	ErrInvalidCredentials = apperr.Authentication("Incorrect email or password")

	// ErrForbidden is returned when a principal may not act on a resource.
	ErrForbidden = apperr.Authorization("Not enough permissions")
)
