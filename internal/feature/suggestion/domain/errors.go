// Package domain defines domain-level errors for the suggestion feature.
package domain

import "suggestion_box/internal/shared/apperr"

var (
	// ErrSuggestionNotFound is returned for an unknown suggestion id, before any ownership check.
	ErrSuggestionNotFound = apperr.NotFound("Suggestion not found")

	ErrInvalidStatus = apperr.Validation("Status must be pending, approved or rejected")
	ErrEmptyTitle    = apperr.Validation("Title must not be empty")
	ErrEmptyText     = apperr.Validation("Text must not be empty")
)
