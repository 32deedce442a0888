// Package router mounts every HTTP route of the service.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "suggestion_box/internal/feature/auth/transport/handler"
	suggestionhandler "suggestion_box/internal/feature/suggestion/transport/handler"
	platformhandler "suggestion_box/internal/platform/http/handler"
	"suggestion_box/internal/platform/metrics"
	"suggestion_box/internal/platform/requestid"
)

// NewRouter builds the gin engine. authRequired guards every route that needs a principal.
func NewRouter(
	authHandler *authhandler.AuthHandler,
	suggestions *suggestionhandler.SuggestionHandler,
	health *platformhandler.HealthHandler,
	m *metrics.Metrics,
	authRequired gin.HandlerFunc,
) *gin.Engine {
	r := gin.Default()
	r.Use(requestid.Middleware(), m.Middleware())

	// public
	r.GET("/", platformhandler.Root)
	r.GET("/health", health.Health)
	r.Match([]string{"GET", "HEAD", "OPTIONS"}, "/healthz", platformhandler.Liveness)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/suggestions", suggestions.List)

	// a valid bearer token is required from here on
	auth := r.Group("/")
	auth.Use(authRequired)
	{
		auth.POST("/suggestions", suggestions.Create)
		auth.GET("/suggestions/:id", suggestions.Get)
		auth.PUT("/suggestions/:id", suggestions.Update)
		auth.DELETE("/suggestions/:id", suggestions.Delete)
		auth.GET("/debug/my-info", authHandler.MyInfo)
	}

	return r
}
