package di

import (
	"context"
	"errors"

	"suggestion_box/internal/feature/auth/domain/entity"
	authusecase "suggestion_box/internal/feature/auth/usecase"
	jwtmw "suggestion_box/internal/platform/jwt"
)

// principalResolver adapts the user repository to jwtmw.PrincipalResolver.
type principalResolver struct {
	users authusecase.UserRepository
}

// NewPrincipalResolver maps the repository's ErrUserNotFound to jwtmw.ErrPrincipalNotFound.
func NewPrincipalResolver(users authusecase.UserRepository) jwtmw.PrincipalResolver {
	return &principalResolver{users: users}
}

func (r *principalResolver) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	u, err := r.users.FindByID(ctx, id)
	if errors.Is(err, authusecase.ErrUserNotFound) {
		return nil, jwtmw.ErrPrincipalNotFound
	}
	return u, err
}
