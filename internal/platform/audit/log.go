package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"suggestion_box/internal/platform/requestid"
)

// Sink is an append target for security events.
type Sink interface {
	Append(ctx context.Context, e Event) error
}

// Log fans security events out to its sinks.
// Recording is best-effort: sink failures are logged and never reach the caller.
type Log struct {
	sinks []Sink
	now   func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog creates a Log writing to the given sinks. Nil sinks are skipped.
func NewLog(sinks []Sink, opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, s := range sinks {
		if s != nil {
			l.sinks = append(l.sinks, s)
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends one event. userID may be nil for anonymous requests.
func (l *Log) Record(ctx context.Context, eventType EventType, userID *uint, details string) {
	e := Event{
		Type:      eventType,
		UserID:    userID,
		Details:   details,
		RequestID: requestid.FromContext(ctx),
		Timestamp: l.now().UTC(),
	}
	for _, s := range l.sinks {
		if err := s.Append(ctx, e); err != nil {
			slog.Error("security event sink failed", "event_type", e.Type, "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
}
