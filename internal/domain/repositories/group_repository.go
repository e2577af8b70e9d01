package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/charry07/lavaca-app/internal/domain/entities"
)

// GroupRepository defines group and membership data operations
type GroupRepository interface {
	Create(ctx context.Context, group *entities.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Group, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Group, error)
	Update(ctx context.Context, group *entities.Group) error
	AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
