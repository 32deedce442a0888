// Package adapters provides repository implementations for the suggestion feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"suggestion_box/internal/feature/suggestion/domain/entity"
	"suggestion_box/internal/feature/suggestion/usecase"
)

type suggestionGorm struct {
	db *gorm.DB
}

var _ usecase.SuggestionRepository = (*suggestionGorm)(nil)

// NewSuggestionRepository creates a new suggestionGorm for the given connection.
func NewSuggestionRepository(db *gorm.DB) *suggestionGorm {
	return &suggestionGorm{db: db}
}

// SuggestionModel is the persisted row of a suggestion.
type SuggestionModel struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Text      string    `gorm:"type:text;not null"`
	Status    string    `gorm:"size:16;not null;default:pending;index"`
	UserID    uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SuggestionModel) TableName() string {
	return "suggestions"
}

func toModel(s entity.Suggestion) SuggestionModel {
	return SuggestionModel{
		ID:        s.ID,
		Title:     s.Title,
		Text:      s.Text,
		Status:    string(s.Status),
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toEntity(m SuggestionModel) entity.Suggestion {
	return entity.Suggestion{
		ID:        m.ID,
		Title:     m.Title,
		Text:      m.Text,
		Status:    entity.Status(m.Status),
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *suggestionGorm) Create(ctx context.Context, s *entity.Suggestion) error {
	m := toModel(*s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = toEntity(m)
	return nil
}

func (r *suggestionGorm) FindByID(ctx context.Context, id uint) (*entity.Suggestion, error) {
	var m SuggestionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	s := toEntity(m)
	return &s, nil
}

func (r *suggestionGorm) List(ctx context.Context, filter usecase.ListFilter) ([]entity.Suggestion, error) {
	var rows []SuggestionModel
	q := r.db.WithContext(ctx).Order("id ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Skip > 0 {
		q = q.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Suggestion, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// Update writes the mutable columns; gorm stamps updated_at.
func (r *suggestionGorm) Update(ctx context.Context, s *entity.Suggestion) error {
	tx := r.db.WithContext(ctx).Model(&SuggestionModel{ID: s.ID}).Updates(map[string]any{
		"title":  s.Title,
		"text":   s.Text,
		"status": string(s.Status),
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return usecase.ErrNotFound
	}

	fresh, err := r.FindByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

func (r *suggestionGorm) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&SuggestionModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
