package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	"github.com/charry07/lavaca-app/internal/domain/repositories"
)

// FeedUsecase handles the bounded activity feed
type FeedUsecase struct {
	feedRepo   repositories.FeedEventRepository
	uow        repositories.UnitOfWork
	maxEvents  int
	queryLimit int

	now func() time.Time
}

// NewFeedUsecase creates a new feed usecase
func NewFeedUsecase(
	feedRepo repositories.FeedEventRepository,
	uow repositories.UnitOfWork,
	maxEvents, queryLimit int,
) *FeedUsecase {
	return &FeedUsecase{
		feedRepo:   feedRepo,
		uow:        uow,
		maxEvents:  maxEvents,
		queryLimit: queryLimit,
		now:        time.Now,
	}
}

// Emit assigns identity to the event and appends it, evicting the
// oldest entries beyond the retention cap in the same transaction.
func (u *FeedUsecase) Emit(ctx context.Context, event *entities.FeedEvent) error {
	event.ID = xid.New().String()
	event.CreatedAt = u.now()

	return u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.feedRepo.Insert(ctx, event); err != nil {
			return err
		}
		return u.feedRepo.TrimToMax(ctx, u.maxEvents)
	})
}

// Query returns the newest events first. limit is clamped to the
// configured maximum; non-positive means "use the maximum".
func (u *FeedUsecase) Query(ctx context.Context, limit int) ([]*entities.FeedEvent, error) {
	return u.feedRepo.List(ctx, u.clamp(limit))
}

// QueryByUser returns the newest events involving a user.
func (u *FeedUsecase) QueryByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.FeedEvent, error) {
	return u.feedRepo.ListByUserID(ctx, userID, u.clamp(limit))
}

func (u *FeedUsecase) clamp(limit int) int {
	if limit <= 0 || limit > u.queryLimit {
		return u.queryLimit
	}
	return limit
}
