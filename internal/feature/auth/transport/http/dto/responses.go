package dto

import (
	"time"

	"suggestion_box/internal/feature/auth/domain/entity"
)

// UserRes is the public representation of a user. It never carries the password hash.
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserRes converts a user entity to its response shape.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// TokenRes is the response of a successful login.
type TokenRes struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
