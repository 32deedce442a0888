// Package entity defines the domain models for the suggestion feature.
package entity

import "time"

// Status is the review state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Suggestion is a piece of feedback submitted by a user.
type Suggestion struct {
	ID        uint
	Title     string
	Text      string
	Status    Status
	UserID    uint // owner
	CreatedAt time.Time
	UpdatedAt time.Time
}
