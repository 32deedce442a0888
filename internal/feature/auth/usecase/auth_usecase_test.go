package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion_box/internal/feature/auth/domain"
	"suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/platform/password"
)

// mockUserRepository is a mock implementation of UserRepository.
// It simulates database operations during testing.
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockTokenIssuer is a mock implementation of TokenIssuer.
type mockTokenIssuer struct {
	IssueFunc func(subject string) (string, error)
}

func (m *mockTokenIssuer) Issue(subject string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subject)
	}
	return "mock-jwt-token", nil
}

type recordedEvent struct {
	Type    audit.EventType
	UserID  *uint
	Details string
}

// mockRecorder collects recorded security events.
type mockRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockRecorder) Record(_ context.Context, t audit.EventType, userID *uint, details string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{Type: t, UserID: userID, Details: details})
}

// testHasher uses cheap argon2 parameters.
var testHasher = password.NewHasher(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

// failingHasher cannot hash anything.
type failingHasher struct{ err error }

func (f failingHasher) Hash(string) (string, error) { return "", f.err }
func (f failingHasher) Verify(string, string) bool  { return false }

func mustNewAuthUsecase(t *testing.T, users UserRepository, hasher PasswordHasher, tokens TokenIssuer, events SecurityRecorder) *authUsecase {
	t.Helper()
	uc, err := NewAuthUsecase(users, hasher, tokens, events)
	require.NoError(t, err)
	return uc
}

func TestNewAuthUsecase_HasherFailure(t *testing.T) {
	hashErr := errors.New("rand: entropy unavailable")

	uc, err := NewAuthUsecase(&mockUserRepository{}, failingHasher{err: hashErr}, &mockTokenIssuer{}, &mockRecorder{})

	assert.Nil(t, uc)
	assert.ErrorIs(t, err, hashErr)
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		var created *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(_ context.Context, user *entity.User) error {
				user.ID = 10
				created = user
				return nil
			},
		}
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, rec)

		user, err := uc.Register(context.Background(), "a@x.com", "SecurePass123!")

		require.NoError(t, err)
		assert.Equal(t, uint(10), user.ID)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, entity.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "SecurePass123!", created.PasswordHash)
		assert.True(t, testHasher.Verify("SecurePass123!", created.PasswordHash))
		assert.Empty(t, rec.events)
	})

	t.Run("password too short", func(t *testing.T) {
		repo := &mockUserRepository{
			FindByEmailFunc: func(context.Context, string) (*entity.User, error) {
				t.Error("repository must not be queried for a short password")
				return nil, ErrUserNotFound
			},
		}
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, rec)

		user, err := uc.Register(context.Background(), "a@x.com", "short")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, password.ErrPasswordTooShort)
		require.Len(t, rec.events, 1)
		assert.Equal(t, audit.EventRegisterPasswordShort, rec.events[0].Type)
		assert.Equal(t, "email=a@x.com", rec.events[0].Details)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &mockUserRepository{
			FindByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: 3, Email: email}, nil
			},
			CreateFunc: func(context.Context, *entity.User) error {
				t.Error("Create must not be called for a duplicate email")
				return nil
			},
		}
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, rec)

		_, err := uc.Register(context.Background(), "a@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
		require.Len(t, rec.events, 1)
		assert.Equal(t, audit.EventRegisterDuplicate, rec.events[0].Type)
	})

	t.Run("duplicate email race on create", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(context.Context, *entity.User) error { return ErrEmailAlreadyExists },
		}
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, rec)

		_, err := uc.Register(context.Background(), "a@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
		require.Len(t, rec.events, 1)
		assert.Equal(t, audit.EventRegisterDuplicate, rec.events[0].Type)
	})

	t.Run("repository failure", func(t *testing.T) {
		dbErr := errors.New("database error")
		repo := &mockUserRepository{
			CreateFunc: func(context.Context, *entity.User) error { return dbErr },
		}
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, rec)

		_, err := uc.Register(context.Background(), "a@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, rec.events)
	})

	t.Run("lookup failure", func(t *testing.T) {
		dbErr := errors.New("timeout")
		repo := &mockUserRepository{
			FindByEmailFunc: func(context.Context, string) (*entity.User, error) { return nil, dbErr },
		}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, &mockRecorder{})

		_, err := uc.Register(context.Background(), "a@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hash, err := testHasher.Hash("SecurePass123!")
	require.NoError(t, err)
	testUser := &entity.User{ID: 7, Email: "a@x.com", PasswordHash: hash, Role: entity.RoleUser}

	repo := &mockUserRepository{
		FindByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			if email == testUser.Email {
				return testUser, nil
			}
			return nil, ErrUserNotFound
		},
	}

	t.Run("successful login", func(t *testing.T) {
		var subject string
		tokens := &mockTokenIssuer{IssueFunc: func(s string) (string, error) {
			subject = s
			return "signed-token", nil
		}}
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, tokens, rec)

		token, user, err := uc.Login(context.Background(), "a@x.com", "SecurePass123!")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
		assert.Equal(t, testUser, user)
		assert.Equal(t, "7", subject)
		assert.Empty(t, rec.events)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{IssueFunc: func(string) (string, error) {
			t.Error("no token may be issued")
			return "", nil
		}}, rec)

		token, user, err := uc.Login(context.Background(), "a@x.com", "WrongPass123!")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Empty(t, token)
		assert.Nil(t, user)
		require.Len(t, rec.events, 1)
		assert.Equal(t, audit.EventLoginFailed, rec.events[0].Type)
		require.NotNil(t, rec.events[0].UserID)
		assert.Equal(t, uint(7), *rec.events[0].UserID)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := &mockRecorder{}
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, rec)

		_, _, err := uc.Login(context.Background(), "nobody@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		require.Len(t, rec.events, 1)
		assert.Equal(t, audit.EventLoginFailed, rec.events[0].Type)
		assert.Nil(t, rec.events[0].UserID)
		assert.Equal(t, "email=nobody@x.com", rec.events[0].Details)
	})

	t.Run("unknown email with the dummy password", func(t *testing.T) {
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{}, &mockRecorder{})

		_, _, err := uc.Login(context.Background(), "nobody@x.com", dummyPassword)

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("token issue failure", func(t *testing.T) {
		issueErr := errors.New("sign failure")
		uc := mustNewAuthUsecase(t, repo, testHasher, &mockTokenIssuer{IssueFunc: func(string) (string, error) {
			return "", issueErr
		}}, &mockRecorder{})

		_, _, err := uc.Login(context.Background(), "a@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, issueErr)
	})

	t.Run("lookup failure", func(t *testing.T) {
		dbErr := errors.New("timeout")
		failing := &mockUserRepository{
			FindByEmailFunc: func(context.Context, string) (*entity.User, error) { return nil, dbErr },
		}
		uc := mustNewAuthUsecase(t, failing, testHasher, &mockTokenIssuer{}, &mockRecorder{})

		_, _, err := uc.Login(context.Background(), "a@x.com", "SecurePass123!")

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
