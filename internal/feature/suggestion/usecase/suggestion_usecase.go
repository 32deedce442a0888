// Package usecase implements the business logic for the suggestion feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authdomain "suggestion_box/internal/feature/auth/domain"
	authentity "suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/feature/suggestion/domain"
	"suggestion_box/internal/feature/suggestion/domain/entity"
	"suggestion_box/internal/platform/audit"
)

const (
	// DefaultLimit is the page size used when the caller does not ask for one.
	DefaultLimit = 100
	// MaxLimit caps the page size of a listing.
	MaxLimit = 1000
)

// SuggestionRepository abstracts the persistence layer for suggestions.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SuggestionRepository interface {
	// Create persists s and fills in its ID and timestamps.
	Create(ctx context.Context, s *entity.Suggestion) error

	// FindByID returns ErrNotFound when no suggestion has the id.
	FindByID(ctx context.Context, id uint) (*entity.Suggestion, error)

	// List returns suggestions ordered by id.
	List(ctx context.Context, filter ListFilter) ([]entity.Suggestion, error)

	// Update writes title, text and status of s and refreshes UpdatedAt.
	// It returns ErrNotFound when the row no longer exists.
	Update(ctx context.Context, s *entity.Suggestion) error

	// Delete returns ErrNotFound when no suggestion has the id.
	Delete(ctx context.Context, id uint) error
}

// SecurityRecorder appends security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, userID *uint, details string)
}

// ListFilter selects a page of suggestions. An empty Status matches all.
type ListFilter struct {
	Skip   int
	Limit  int
	Status entity.Status
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title  *string
	Text   *string
	Status *string
}

// suggestionUsecase implements suggestion CRUD guarded by the ownership policy.
type suggestionUsecase struct {
	repo   SuggestionRepository
	events SecurityRecorder
}

// NewSuggestionUsecase creates a new suggestionUsecase.
func NewSuggestionUsecase(repo SuggestionRepository, events SecurityRecorder) *suggestionUsecase {
	return &suggestionUsecase{repo: repo, events: events}
}

// Create stores a new pending suggestion owned by principal.
func (u *suggestionUsecase) Create(ctx context.Context, principal *authentity.User, title, text string) (*entity.Suggestion, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	s := &entity.Suggestion{
		Title:  title,
		Text:   text,
		Status: entity.StatusPending,
		UserID: principal.ID,
	}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	return s, nil
}

// List returns a page of suggestions. It is public and applies no ownership check.
func (u *suggestionUsecase) List(ctx context.Context, filter ListFilter) ([]entity.Suggestion, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	ss, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return ss, nil
}

// Get returns one suggestion if principal may access it.
func (u *suggestionUsecase) Get(ctx context.Context, principal *authentity.User, id uint) (*entity.Suggestion, error) {
	return u.authorize(ctx, principal, id, audit.EventUnauthorizedAccess)
}

// Update applies a partial update if principal may modify the suggestion.
func (u *suggestionUsecase) Update(ctx context.Context, principal *authentity.User, id uint, in UpdateInput) (*entity.Suggestion, error) {
	s, err := u.authorize(ctx, principal, id, audit.EventUnauthorizedUpdate)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.ErrEmptyTitle
		}
		s.Title = *in.Title
	}
	if in.Text != nil {
		if strings.TrimSpace(*in.Text) == "" {
			return nil, domain.ErrEmptyText
		}
		s.Text = *in.Text
	}
	if in.Status != nil {
		status := entity.Status(*in.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		s.Status = status
	}

	if err := u.repo.Update(ctx, s); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("update suggestion %d: %w", id, err)
	}
	return s, nil
}

// Delete removes a suggestion if principal may modify it.
func (u *suggestionUsecase) Delete(ctx context.Context, principal *authentity.User, id uint) error {
	if _, err := u.authorize(ctx, principal, id, audit.EventUnauthorizedDelete); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.ErrSuggestionNotFound
		}
		return fmt.Errorf("delete suggestion %d: %w", id, err)
	}
	return nil
}

// authorize loads the suggestion and applies the ownership policy.
// A missing suggestion is reported as not found before ownership is considered.
func (u *suggestionUsecase) authorize(ctx context.Context, principal *authentity.User, id uint, denied audit.EventType) (*entity.Suggestion, error) {
	s, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("find suggestion %d: %w", id, err)
	}

	if err := authdomain.CheckOwnership(principal, s.UserID); err != nil {
		var userID *uint
		if principal != nil {
			userID = audit.UserID(principal.ID)
		}
		u.events.Record(ctx, denied, userID, fmt.Sprintf("attempted_suggestion_id=%d, owner_id=%d", id, s.UserID))
		return nil, err
	}
	return s, nil
}
