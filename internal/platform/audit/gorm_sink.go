package audit

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SecurityEventModel is the GORM model for the security_events table.
type SecurityEventModel struct {
	ID        uint      `gorm:"primaryKey"`
	EventType string    `gorm:"size:64;index;not null"`
	UserID    *uint     `gorm:"index"`
	Details   string    `gorm:"type:text"`
	RequestID string    `gorm:"size:36"`
	Timestamp time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (SecurityEventModel) TableName() string {
	return "security_events"
}

// ToEvent converts the GORM model to an Event.
func (m *SecurityEventModel) ToEvent() Event {
	return Event{
		Type:      EventType(m.EventType),
		UserID:    m.UserID,
		Details:   m.Details,
		RequestID: m.RequestID,
		Timestamp: m.Timestamp,
	}
}

// GormSink appends security events to the database. It only ever inserts.
type GormSink struct {
	db *gorm.DB
}

// NewGormSink creates a GormSink.
func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

// Append implements Sink.
func (s *GormSink) Append(ctx context.Context, e Event) error {
	return s.db.WithContext(ctx).Create(&SecurityEventModel{
		EventType: string(e.Type),
		UserID:    e.UserID,
		Details:   e.Details,
		RequestID: e.RequestID,
		Timestamp: e.Timestamp,
	}).Error
}
