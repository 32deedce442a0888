// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role is the authorization role of a user.
type Role string

const (
	// RoleUser may only act on resources it owns.
	RoleUser Role = "user"
	// RoleModerator may act on every resource.
	RoleModerator Role = "moderator"
)

// User represents a registered user in the system.
// It is the principal resolved from a bearer token.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users and is compared as stored.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the Argon2id hash of the user's password.
	// It is never serialized outward.
	PasswordHash string `gorm:"column:hashed_password;size:255;not null" json:"-"`

	// Role is either "user" or "moderator".
	Role Role `gorm:"size:32;not null;default:user"`

	// IsActive marks whether the account is enabled.
	IsActive bool `gorm:"not null;default:true"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time
}

// IsModerator reports whether the user has the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
