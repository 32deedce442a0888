// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"suggestion_box/internal/feature/auth/domain"
	"suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/platform/password"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the id.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer issues signed bearer tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// SecurityRecorder appends security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, userID *uint, details string)
}

// dummyPassword is hashed once so that logins for unknown emails cost as much as real ones.
const dummyPassword = "timing-equalization-password"

// authUsecase implements registration and login.
type authUsecase struct {
	users     UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	events    SecurityRecorder
	dummyHash string
}

// NewAuthUsecase creates a new authUsecase.
// It fails if the hasher cannot produce the hash used for unknown-email logins.
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, events SecurityRecorder) (*authUsecase, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare login hash: %w", err)
	}
	return &authUsecase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		events:    events,
		dummyHash: dummyHash,
	}, nil
}

// Register creates a user with a hashed password and the default role.
func (u *authUsecase) Register(ctx context.Context, email, plaintext string) (*entity.User, error) {
	if err := password.Validate(plaintext); err != nil {
		u.events.Record(ctx, audit.EventRegisterPasswordShort, nil, "email="+email)
		return nil, err
	}

	_, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		u.events.Record(ctx, audit.EventRegisterDuplicate, nil, "email="+email)
		return nil, domain.ErrEmailAlreadyRegistered
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashed, err := u.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         entity.RoleUser,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, ErrEmailAlreadyExists) {
			u.events.Record(ctx, audit.EventRegisterDuplicate, nil, "email="+email)
			return nil, domain.ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates the user and returns a signed access token.
// The password is always verified, against a dummy hash for unknown emails, to resist timing attacks.
func (u *authUsecase) Login(ctx context.Context, email, plaintext string) (string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", nil, fmt.Errorf("failed to look up email: %w", err)
	}

	passwordHash := u.dummyHash
	if user != nil {
		passwordHash = user.PasswordHash
	}
	ok := u.hasher.Verify(plaintext, passwordHash)

	if user == nil || !ok {
		var userID *uint
		if user != nil {
			userID = audit.UserID(user.ID)
		}
		u.events.Record(ctx, audit.EventLoginFailed, userID, "email="+email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(strconv.FormatUint(uint64(user.ID), 10))
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}
