// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/feature/auth/transport/http/dto"
	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/platform/http/response"
	jwtmw "suggestion_box/internal/platform/jwt"
	"suggestion_box/internal/shared/apperr"
)

// AuthUsecase defines the authentication use cases.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register creates a user with the given email and password.
	Register(ctx context.Context, email, password string) (*entity.User, error)
	// Login authenticates the user and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
}

// SecurityRecorder appends security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, userID *uint, details string)
}

// AuthHandler handles the HTTP requests for authentication.
type AuthHandler struct {
	auth   AuthUsecase
	events SecurityRecorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase, events SecurityRecorder) *AuthHandler {
	return &AuthHandler{auth: auth, events: events}
}

// Register handles POST /auth/register.
//   - invalid body: 400
//   - short password or duplicate email: 400 with the reason
//   - success: 200 with the created user, without any password field
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			h.events.Record(c.Request.Context(), audit.ErrorEvent("register"), nil, "error="+err.Error())
			slog.Error("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		} else {
			slog.Warn("register rejected", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		}
		response.Error(c, err, "Internal server error during registration")
		return
	}

	slog.Info("USER_ACTION", "action", "REGISTER_SUCCESS", "user_id", user.ID, "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// Login handles POST /auth/login.
//   - invalid body: 400
//   - unknown email or wrong password: 401 with WWW-Authenticate: Bearer
//   - success: 200 with a bearer access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		response.BadRequest(c, "Invalid request body")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			h.events.Record(c.Request.Context(), audit.ErrorEvent("login"), nil, "error="+err.Error())
			slog.Error("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		} else {
			slog.Warn("login rejected", "email", req.Email, "remote_addr", c.ClientIP())
		}
		response.Error(c, err, "Internal server error during login")
		return
	}

	slog.Info("USER_ACTION", "action", "LOGIN_SUCCESS", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{AccessToken: token, TokenType: "bearer"})
}

// MyInfo handles GET /debug/my-info and returns the authenticated principal.
func (h *AuthHandler) MyInfo(c *gin.Context) {
	user, ok := jwtmw.PrincipalFrom(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated, "")
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}
