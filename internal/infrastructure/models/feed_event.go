package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedEvent struct {
	ID        string     `gorm:"type:varchar(20);primaryKey"`
	Type      string     `gorm:"type:varchar(30);not null;index"`
	Message   string     `gorm:"type:varchar(500);not null"`
	SessionID *uuid.UUID `gorm:"type:uuid;index"`
	GroupID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"index"`

	Users []FeedEventUser `gorm:"foreignKey:EventID"`
}

func (FeedEvent) TableName() string {
	return "feed_events"
}

type FeedEventUser struct {
	EventID string    `gorm:"type:varchar(20);primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (FeedEventUser) TableName() string {
	return "feed_event_users"
}
