// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suggestion_box/internal/platform/audit"
)

// Version is reported by the /health endpoint.
const Version = "0.1.0"

const pingTimeout = 2 * time.Second

// Pinger checks that a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SecurityRecorder appends security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, userID *uint, details string)
}

// Liveness handles /healthz. It never touches dependencies and disables caching.
func Liveness(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Root handles GET /.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Suggestion Box API is running"})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports database connectivity.
type HealthHandler struct {
	db     Pinger
	events SecurityRecorder
	now    func() time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db Pinger, events SecurityRecorder) *HealthHandler {
	return &HealthHandler{db: db, events: events, now: time.Now}
}

// Health handles GET /health. An unreachable database is reported in the body
// with status 200 and recorded as HEALTH_CHECK_FAILED.
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	res := HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Version:   Version,
		Timestamp: h.now().UTC(),
	}
	if err := h.db.Ping(ctx); err != nil {
		h.events.Record(c.Request.Context(), audit.EventHealthCheckFailed, nil, "database_error="+err.Error())
		slog.Error("health check failed", "error", err)
		res.Status = "unhealthy"
		res.Database = "disconnected"
	}
	c.JSON(http.StatusOK, res)
}
