package audit

import (
	"context"
	"log/slog"
	"strconv"
)

// SlogSink writes security events as structured warnings.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a SlogSink. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Append implements Sink.
func (s *SlogSink) Append(ctx context.Context, e Event) error {
	user := "anonymous"
	if e.UserID != nil {
		user = "user_id=" + strconv.FormatUint(uint64(*e.UserID), 10)
	}
	s.logger.WarnContext(ctx, "SECURITY",
		"event_type", string(e.Type),
		"user", user,
		"details", e.Details,
		"request_id", e.RequestID,
		"timestamp", e.Timestamp,
	)
	return nil
}
