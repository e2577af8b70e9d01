package entities

import (
	"time"

	"github.com/google/uuid"
)

// FeedEventType represents the kind of activity notification
type FeedEventType string

const (
	FeedEventRouletteWin    FeedEventType = "roulette_win"
	FeedEventRouletteCoward FeedEventType = "roulette_coward"
	FeedEventFastPayer      FeedEventType = "fast_payer"
	FeedEventSessionClosed  FeedEventType = "session_closed"
	FeedEventDebtReminder   FeedEventType = "debt_reminder"
)

// FeedEvent is an immutable, human-readable notification derived from a
// session transition. UserIDs lists the users the event concerns.
type FeedEvent struct {
	ID        string        `json:"id"`
	Type      FeedEventType `json:"type"`
	Message   string        `json:"message"`
	SessionID *uuid.UUID    `json:"sessionId,omitempty"`
	GroupID   *uuid.UUID    `json:"groupId,omitempty"`
	UserIDs   []uuid.UUID   `json:"userIds"`
	CreatedAt time.Time     `json:"createdAt"`
}
