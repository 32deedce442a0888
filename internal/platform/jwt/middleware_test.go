package jwtmw

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/shared/apperr"
)

// TestMain sets Gin to test mode before running tests.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockResolver is a mock implementation of PrincipalResolver.
type mockResolver struct {
	FindByIDFunc func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockResolver) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrPrincipalNotFound
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

var alice = &entity.User{ID: 1, Email: "alice@example.com", Role: entity.RoleUser, IsActive: true}

func usersWith(users ...*entity.User) *mockResolver {
	return &mockResolver{FindByIDFunc: func(_ context.Context, id uint) (*entity.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, ErrPrincipalNotFound
	}}
}

// signWithClaims creates an HS256 token with arbitrary claims for testing.
func signWithClaims(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	tokens := newTestService(t)
	valid, err := tokens.Issue("1")
	require.NoError(t, err)
	unknown, err := tokens.Issue("999")
	require.NoError(t, err)
	notNumeric, err := tokens.Issue("alice")
	require.NoError(t, err)
	zero, err := tokens.Issue("0")
	require.NoError(t, err)
	negative, err := tokens.Issue("-1")
	require.NoError(t, err)
	expired, err := tokens.IssueWithTTL("1", -time.Minute)
	require.NoError(t, err)
	noSub := signWithClaims(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

	tests := []struct {
		name       string
		header     string
		wantReason audit.EventType
		wantUserID *uint
	}{
		{"no header", "", audit.EventMissingToken, nil},
		{"basic scheme", "Basic dXNlcjpwYXNz", audit.EventMissingToken, nil},
		{"scheme only", "Bearer", audit.EventMissingToken, nil},
		{"scheme with blank token", "Bearer   ", audit.EventMissingToken, nil},
		{"token without scheme", valid, audit.EventMissingToken, nil},
		{"garbage token", "Bearer garbage", audit.EventInvalidToken, nil},
		{"expired token", "Bearer " + expired, audit.EventInvalidToken, nil},
		{"missing sub", "Bearer " + noSub, audit.EventInvalidTokenPayload, nil},
		{"non numeric sub", "Bearer " + notNumeric, audit.EventInvalidUserID, nil},
		{"zero sub", "Bearer " + zero, audit.EventInvalidUserID, nil},
		{"negative sub", "Bearer " + negative, audit.EventInvalidUserID, nil},
		{"unknown user", "Bearer " + unknown, audit.EventUserNotFound, audit.UserID(999)},
	}

	a := NewAuthenticator(tokens, usersWith(alice), &mockRecorder{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, err := a.Authenticate(context.Background(), tt.header)
			assert.Nil(t, user)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantReason, authErr.Reason)
			assert.Equal(t, tt.wantUserID, authErr.UserID)
			assert.ErrorIs(t, err, ErrNotAuthenticated)
			assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
		})
	}

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		for _, header := range []string{"Bearer " + valid, "bearer " + valid, "BEARER  " + valid} {
			user, err := a.Authenticate(context.Background(), header)
			require.NoError(t, err)
			assert.Equal(t, alice, user)
		}
	})
}

func TestAuthenticator_Authenticate_StorageFailure(t *testing.T) {
	t.Parallel()

	tokens := newTestService(t)
	token, err := tokens.Issue("1")
	require.NoError(t, err)

	dbErr := errors.New("connection reset")
	a := NewAuthenticator(tokens, &mockResolver{FindByIDFunc: func(context.Context, uint) (*entity.User, error) {
		return nil, dbErr
	}}, &mockRecorder{})

	user, err := a.Authenticate(context.Background(), "Bearer "+token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, dbErr)

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
}

func serve(a *Authenticator, header string) (*httptest.ResponseRecorder, *entity.User) {
	var seen *entity.User
	r := gin.New()
	r.GET("/protected", a.Middleware(), func(c *gin.Context) {
		seen, _ = PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen
}

// TestMiddleware_UniformRejection checks every rejection yields the same 401 body and records its event.
func TestMiddleware_UniformRejection(t *testing.T) {
	t.Parallel()

	tokens := newTestService(t)
	unknown, err := tokens.Issue("404")
	require.NoError(t, err)
	notNumeric, err := tokens.Issue("abc")
	require.NoError(t, err)
	noSub := signWithClaims(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

	tests := []struct {
		name      string
		header    string
		wantEvent audit.EventType
	}{
		{"missing header", "", audit.EventMissingToken},
		{"malformed header", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...", audit.EventMissingToken},
		{"garbage", "Bearer garbage", audit.EventInvalidToken},
		{"missing sub", "Bearer " + noSub, audit.EventInvalidTokenPayload},
		{"invalid user id", "Bearer " + notNumeric, audit.EventInvalidUserID},
		{"user not found", "Bearer " + unknown, audit.EventUserNotFound},
	}

	const wantBody = `{"detail":"Could not validate credentials"}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &mockRecorder{}
			w, seen := serve(NewAuthenticator(tokens, usersWith(alice), rec), tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, wantBody, w.Body.String())
			assert.Nil(t, seen)

			require.Len(t, rec.events, 1)
			assert.Equal(t, tt.wantEvent, rec.events[0].Type)
		})
	}
}

// TestMiddleware_RejectionLogsOnlyThroughRecorder swaps the default logger, so it must not run in parallel.
func TestMiddleware_RejectionLogsOnlyThroughRecorder(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tokens := newTestService(t)
	unknown, err := tokens.Issue("404")
	require.NoError(t, err)
	failing := &mockResolver{FindByIDFunc: func(context.Context, uint) (*entity.User, error) {
		return nil, errors.New("db is down")
	}}

	rec := &mockRecorder{}
	w, _ := serve(NewAuthenticator(tokens, usersWith(alice), rec), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = serve(NewAuthenticator(tokens, usersWith(alice), rec), "Bearer "+unknown)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = serve(NewAuthenticator(tokens, failing, rec), "Bearer "+unknown)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Len(t, rec.events, 3)
	assert.Empty(t, buf.String())
}

func TestMiddleware_NumericSubject(t *testing.T) {
	t.Parallel()

	tokens := newTestService(t)
	exp := time.Now().Add(time.Hour).Unix()

	rec := &mockRecorder{}
	w, seen := serve(NewAuthenticator(tokens, usersWith(alice), rec),
		"Bearer "+signWithClaims(t, jwt.MapClaims{"sub": 1, "exp": exp}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, alice, seen)
	assert.Empty(t, rec.events)

	w, _ = serve(NewAuthenticator(tokens, usersWith(alice), rec),
		"Bearer "+signWithClaims(t, jwt.MapClaims{"sub": 1.5, "exp": exp}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.Len(t, rec.events, 1)
	assert.Equal(t, audit.EventInvalidUserID, rec.events[0].Type)
	assert.Equal(t, "user_id_str=1.5", rec.events[0].Details)
}

func TestMiddleware_ValidToken(t *testing.T) {
	t.Parallel()

	tokens := newTestService(t)
	token, err := tokens.Issue("1")
	require.NoError(t, err)

	rec := &mockRecorder{}
	w, seen := serve(NewAuthenticator(tokens, usersWith(alice), rec), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, alice, seen)
	assert.Empty(t, rec.events)
}

func TestMiddleware_StorageFailure(t *testing.T) {
	t.Parallel()

	tokens := newTestService(t)
	token, err := tokens.Issue("1")
	require.NoError(t, err)

	rec := &mockRecorder{}
	a := NewAuthenticator(tokens, &mockResolver{FindByIDFunc: func(context.Context, uint) (*entity.User, error) {
		return nil, errors.New("db is down")
	}}, rec)

	w, _ := serve(a, "Bearer "+token)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "db is down")
	require.Len(t, rec.events, 1)
	assert.Equal(t, audit.EventType("AUTHENTICATE_ERROR"), rec.events[0].Type)
}

func TestPrincipalFrom_Missing(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	user, ok := PrincipalFrom(c)

	assert.False(t, ok)
	assert.Nil(t, user)
}
