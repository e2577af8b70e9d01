package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/charry07/lavaca-app/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByDocumentID(ctx context.Context, documentID string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}
