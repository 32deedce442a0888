// Package audit implements the append-only security event log.
package audit

import (
	"strings"
	"time"
)

// EventType identifies an authentication or authorization decision point.
type EventType string

// Canonical security event types.
const (
	EventMissingToken          EventType = "MISSING_TOKEN"
	EventInvalidToken          EventType = "INVALID_TOKEN"
	EventInvalidTokenPayload   EventType = "INVALID_TOKEN_PAYLOAD"
	EventInvalidUserID         EventType = "INVALID_USER_ID"
	EventUserNotFound          EventType = "USER_NOT_FOUND"
	EventUnauthorizedAccess    EventType = "UNAUTHORIZED_ACCESS"
	EventUnauthorizedUpdate    EventType = "UNAUTHORIZED_UPDATE"
	EventUnauthorizedDelete    EventType = "UNAUTHORIZED_DELETE"
	EventLoginFailed           EventType = "LOGIN_FAILED"
	EventRegisterDuplicate     EventType = "REGISTER_DUPLICATE_EMAIL"
	EventRegisterPasswordShort EventType = "REGISTER_PASSWORD_TOO_SHORT"
	EventHealthCheckFailed     EventType = "HEALTH_CHECK_FAILED"
)

// ErrorEvent returns the generic event type for an unexpected failure in op,
// e.g. ErrorEvent("register") == "REGISTER_ERROR".
func ErrorEvent(op string) EventType {
	return EventType(strings.ToUpper(op) + "_ERROR")
}

// Event is one immutable security log entry.
type Event struct {
	Type      EventType `json:"event_type"`
	UserID    *uint     `json:"user_id"`
	Details   string    `json:"details"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserID is a convenience for passing a known user id to Record.
func UserID(id uint) *uint {
	return &id
}
