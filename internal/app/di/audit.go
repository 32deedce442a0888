package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/platform/metrics"
)

// securityEventsKey is the Redis list holding the audit mirror.
const securityEventsKey = "security_events"

// NewSecurityEventStores returns the persistent audit sinks.
// The security_events table always receives every event.
// If Redis is available, events are mirrored onto a Redis list as well.
func NewSecurityEventStores(db *gorm.DB, rdb *redis.Client, redisTimeout time.Duration) []audit.Sink {
	stores := []audit.Sink{audit.NewGormSink(db)}
	if rdb != nil {
		stores = append(stores, audit.NewRedisSink(rdb, securityEventsKey, redisTimeout))
	}
	return stores
}

// NewSecurityLog fans events out to the log, the persistent stores and the metrics.
func NewSecurityLog(logger *slog.Logger, stores []audit.Sink, m *metrics.Metrics) *audit.Log {
	sinks := make([]audit.Sink, 0, len(stores)+2)
	sinks = append(sinks, audit.NewSlogSink(logger))
	sinks = append(sinks, stores...)
	sinks = append(sinks, m)
	return audit.NewLog(sinks)
}
