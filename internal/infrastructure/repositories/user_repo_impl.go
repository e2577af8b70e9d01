package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:          user.ID,
		Phone:       user.Phone,
		DisplayName: user.DisplayName,
		Username:    user.Username,
		DocumentID:  user.DocumentID.Ptr(),
		AvatarURL:   user.AvatarURL.Ptr(),
		Email:       user.Email.Ptr(),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByPhone gets a user by phone number
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	return r.getBy(ctx, "phone = ?", phone)
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

// GetByDocumentID gets a user by document number
func (r *UserRepository) GetByDocumentID(ctx context.Context, documentID string) (*entities.User, error) {
	return r.getBy(ctx, "document_id = ?", documentID)
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Update persists the mutable profile fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"display_name": user.DisplayName,
		"updated_at":   time.Now(),
	}
	if user.AvatarURL.Valid {
		updates["avatar_url"] = user.AvatarURL.String
	}
	if user.Email.Valid {
		updates["email"] = user.Email.String
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func userToEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:          m.ID,
		Phone:       m.Phone,
		DisplayName: m.DisplayName,
		Username:    m.Username,
		DocumentID:  null.StringFromPtr(m.DocumentID),
		AvatarURL:   null.StringFromPtr(m.AvatarURL),
		Email:       null.StringFromPtr(m.Email),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
