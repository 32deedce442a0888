// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"suggestion_box/internal/app/router"
	authadapters "suggestion_box/internal/feature/auth/adapters"
	authhandler "suggestion_box/internal/feature/auth/transport/handler"
	authusecase "suggestion_box/internal/feature/auth/usecase"
	suggestionadapters "suggestion_box/internal/feature/suggestion/adapters"
	suggestionhandler "suggestion_box/internal/feature/suggestion/transport/handler"
	suggestionusecase "suggestion_box/internal/feature/suggestion/usecase"
	"suggestion_box/internal/platform/db"
	platformhandler "suggestion_box/internal/platform/http/handler"
	jwtmw "suggestion_box/internal/platform/jwt"
	"suggestion_box/internal/platform/metrics"
	"suggestion_box/internal/platform/password"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "suggestion_box"

// Deps are the process-wide resources the application is built from.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client // optional

	Token             jwtmw.Config
	TokenOptions      []jwtmw.Option
	PasswordParams    password.Params
	AuditRedisTimeout time.Duration
	Logger            *slog.Logger
}

// NewApp wires repositories, usecases and handlers into a router.
func NewApp(d Deps) (*gin.Engine, error) {
	tokens, err := jwtmw.NewTokenService(d.Token, d.TokenOptions...)
	if err != nil {
		return nil, err
	}

	m := metrics.New(MetricsNamespace)
	events := NewSecurityLog(d.Logger, NewSecurityEventStores(d.DB, d.Redis, d.AuditRedisTimeout), m)
	hasher := password.NewHasher(d.PasswordParams)

	// Repository
	userRepo := authadapters.NewUserRepository(d.DB)
	suggestionRepo := suggestionadapters.NewSuggestionRepository(d.DB)

	// Usecase
	authUC, err := authusecase.NewAuthUsecase(userRepo, hasher, tokens, events)
	if err != nil {
		return nil, err
	}
	suggestionUC := suggestionusecase.NewSuggestionUsecase(suggestionRepo, events)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, events)
	suggestionH := suggestionhandler.NewSuggestionHandler(suggestionUC, events)
	healthH := platformhandler.NewHealthHandler(platformhandler.PingFunc(func(ctx context.Context) error {
		return db.Ping(ctx, d.DB)
	}), events)

	authenticator := jwtmw.NewAuthenticator(tokens, NewPrincipalResolver(userRepo), events)

	return router.NewRouter(authH, suggestionH, healthH, m, authenticator.Middleware()), nil
}
