package dto

import (
	"time"

	"suggestion_box/internal/feature/suggestion/domain/entity"
)

// SuggestionRes is the response DTO of a suggestion.
type SuggestionRes struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	UserID    uint      `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSuggestionRes converts a suggestion entity to its response shape.
func NewSuggestionRes(s *entity.Suggestion) SuggestionRes {
	return SuggestionRes{
		ID:        s.ID,
		Title:     s.Title,
		Text:      s.Text,
		UserID:    s.UserID,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

// MessageRes is a plain acknowledgement.
type MessageRes struct {
	Message string `json:"message"`
}
