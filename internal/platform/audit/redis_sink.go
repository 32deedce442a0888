package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPushTimeout bounds a single push when no timeout is given.
const DefaultRedisPushTimeout = 500 * time.Millisecond

// RedisSink mirrors security events as JSON onto a Redis list, newest first.
// The list is append-only. It is a secondary copy; the durable record lives in GormSink.
type RedisSink struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisSink creates a RedisSink writing to key. timeout <= 0 uses DefaultRedisPushTimeout.
func NewRedisSink(client *redis.Client, key string, timeout time.Duration) *RedisSink {
	if key == "" {
		key = "security_events"
	}
	if timeout <= 0 {
		timeout = DefaultRedisPushTimeout
	}
	return &RedisSink{client: client, key: key, timeout: timeout}
}

// Append implements Sink.
func (s *RedisSink) Append(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal security event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.LPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push security event: %w", err)
	}
	return nil
}
