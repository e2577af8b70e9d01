package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/charry07/lavaca-app/internal/domain/entities"
)

// FeedEventRepository defines the bounded activity log operations
type FeedEventRepository interface {
	Insert(ctx context.Context, event *entities.FeedEvent) error
	// TrimToMax deletes the oldest events beyond max. Run in the same
	// transaction as the Insert that triggered it.
	TrimToMax(ctx context.Context, max int) error
	List(ctx context.Context, limit int) ([]*entities.FeedEvent, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.FeedEvent, error)
}
