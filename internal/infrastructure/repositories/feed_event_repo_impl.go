package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	"github.com/charry07/lavaca-app/internal/infrastructure/models"
)

// FeedEventRepository implements the bounded activity log
type FeedEventRepository struct {
	db *gorm.DB
}

// NewFeedEventRepository creates a new feed event repository
func NewFeedEventRepository(db *gorm.DB) *FeedEventRepository {
	return &FeedEventRepository{db: db}
}

// Insert persists an event and its user links
func (r *FeedEventRepository) Insert(ctx context.Context, event *entities.FeedEvent) error {
	m := &models.FeedEvent{
		ID:        event.ID,
		Type:      string(event.Type),
		Message:   event.Message,
		SessionID: event.SessionID,
		GroupID:   event.GroupID,
		CreatedAt: event.CreatedAt,
	}
	for _, userID := range event.UserIDs {
		m.Users = append(m.Users, models.FeedEventUser{EventID: event.ID, UserID: userID})
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// TrimToMax deletes the oldest events beyond max, user links included
func (r *FeedEventRepository) TrimToMax(ctx context.Context, max int) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var staleIDs []string
	err := db.Model(&models.FeedEvent{}).
		Order("created_at DESC, id DESC").
		Offset(max).
		Limit(-1).
		Pluck("id", &staleIDs).Error
	if err != nil {
		return err
	}
	if len(staleIDs) == 0 {
		return nil
	}

	if err := db.Where("event_id IN ?", staleIDs).Delete(&models.FeedEventUser{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", staleIDs).Delete(&models.FeedEvent{}).Error
}

// List returns the newest events first, up to limit
func (r *FeedEventRepository) List(ctx context.Context, limit int) ([]*entities.FeedEvent, error) {
	var eventModels []models.FeedEvent
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Users").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, err
	}
	return feedEventsToEntities(eventModels), nil
}

// ListByUserID returns the newest events involving a user, up to limit
func (r *FeedEventRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.FeedEvent, error) {
	var eventModels []models.FeedEvent
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Users").
		Joins("JOIN feed_event_users ON feed_event_users.event_id = feed_events.id").
		Where("feed_event_users.user_id = ?", userID).
		Order("feed_events.created_at DESC, feed_events.id DESC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, err
	}
	return feedEventsToEntities(eventModels), nil
}

func feedEventsToEntities(eventModels []models.FeedEvent) []*entities.FeedEvent {
	events := make([]*entities.FeedEvent, 0, len(eventModels))
	for i := range eventModels {
		m := &eventModels[i]
		event := &entities.FeedEvent{
			ID:        m.ID,
			Type:      entities.FeedEventType(m.Type),
			Message:   m.Message,
			SessionID: m.SessionID,
			GroupID:   m.GroupID,
			CreatedAt: m.CreatedAt,
		}
		for _, u := range m.Users {
			event.UserIDs = append(event.UserIDs, u.UserID)
		}
		events = append(events, event)
	}
	return events
}
