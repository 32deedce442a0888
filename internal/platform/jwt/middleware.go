package jwtmw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/shared/apperr"
)

// ContextPrincipal is the gin context key holding the authenticated *entity.User.
const ContextPrincipal = "principal"

// CredentialsDetail is the single client-facing message for every authentication rejection.
const CredentialsDetail = "Could not validate credentials"

// ErrNotAuthenticated is the taxonomy error every AuthError unwraps to.
var ErrNotAuthenticated = apperr.Authentication(CredentialsDetail)

// AuthError is a rejected authentication attempt. Reason is the security event to record;
// it must never be shown to the client.
type AuthError struct {
	Reason  audit.EventType
	UserID  *uint
	Details string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected: %s (%s)", e.Reason, e.Details)
}

func (e *AuthError) Unwrap() error { return ErrNotAuthenticated }

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// ErrPrincipalNotFound is returned by a PrincipalResolver when no such user exists.
var ErrPrincipalNotFound = errors.New("principal not found")

// PrincipalResolver loads the user a token refers to.
// It returns ErrPrincipalNotFound when no such user exists.
type PrincipalResolver interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// SecurityRecorder appends security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, userID *uint, details string)
}

// Authenticator turns an Authorization header into a principal.
type Authenticator struct {
	tokens TokenVerifier
	users  PrincipalResolver
	events SecurityRecorder
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(tokens TokenVerifier, users PrincipalResolver, events SecurityRecorder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, events: events}
}

// Authenticate resolves the principal for an Authorization header value.
// Rejections are returned as *AuthError; storage failures are returned as they are.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*entity.User, error) {
	// NoCredentials -> TokenPresent
	token, ok := bearerToken(authorization)
	if !ok {
		return nil, &AuthError{Reason: audit.EventMissingToken, Details: "no_authorization_header"}
	}

	// TokenPresent -> TokenValid
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, &AuthError{Reason: audit.EventInvalidToken, Details: "token_verification_failed"}
	}
	if claims.Subject == "" {
		return nil, &AuthError{Reason: audit.EventInvalidTokenPayload, Details: "missing_sub_field"}
	}
	id, err := strconv.ParseUint(claims.Subject, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return nil, &AuthError{Reason: audit.EventInvalidUserID, Details: "user_id_str=" + claims.Subject}
	}

	// TokenValid -> PrincipalResolved
	user, err := a.users.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, &AuthError{Reason: audit.EventUserNotFound, UserID: audit.UserID(uint(id)), Details: "user_id_from_token_not_in_db"}
		}
		return nil, fmt.Errorf("failed to resolve principal %d: %w", id, err)
	}
	return user, nil
}

// Middleware returns a Gin middleware that only lets authenticated requests through.
// Every rejection is recorded once, through the security log, before the uniform 401 response is written.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, err := a.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				a.events.Record(ctx, authErr.Reason, authErr.UserID, authErr.Details)
				c.Header("WWW-Authenticate", "Bearer")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": CredentialsDetail})
				return
			}

			a.events.Record(ctx, audit.ErrorEvent("authenticate"), nil, "error="+err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}

		c.Set(ContextPrincipal, user)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Middleware.
func PrincipalFrom(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}

// bearerToken extracts the credentials of a "Bearer <token>" header.
// The scheme is case-insensitive.
func bearerToken(authorization string) (string, bool) {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	return credentials, credentials != ""
}
