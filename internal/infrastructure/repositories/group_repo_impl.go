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

// GroupRepository implements group and membership data operations
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create persists a group and its initial members
func (r *GroupRepository) Create(ctx context.Context, group *entities.Group) error {
	m := &models.Group{
		ID:        group.ID,
		Name:      group.Name,
		Icon:      group.Icon.Ptr(),
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	}
	for _, userID := range group.MemberIDs {
		m.Members = append(m.Members, models.GroupMember{
			GroupID:  group.ID,
			UserID:   userID,
			JoinedAt: group.CreatedAt,
		})
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a group with its member IDs
func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Group, error) {
	var m models.Group
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return groupToEntity(&m), nil
}

// ListByUserID lists groups the user belongs to, newest first
func (r *GroupRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Group, error) {
	var groupModels []models.Group
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&groupModels).Error
	if err != nil {
		return nil, err
	}

	groups := make([]*entities.Group, 0, len(groupModels))
	for i := range groupModels {
		groups = append(groups, groupToEntity(&groupModels[i]))
	}
	return groups, nil
}

// Update persists the group's name and icon
func (r *GroupRepository) Update(ctx context.Context, group *entities.Group) error {
	updates := map[string]interface{}{
		"name":       group.Name,
		"updated_at": time.Now(),
	}
	if group.Icon.Valid {
		updates["icon"] = group.Icon.String
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ?", group.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AddMembers inserts membership rows, skipping users already present
func (r *GroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	now := time.Now()
	for _, userID := range userIDs {
		var count int64
		err := db.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", groupID, userID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		m := &models.GroupMember{GroupID: groupID, UserID: userID, JoinedAt: now}
		if err := db.Create(m).Error; err != nil {
			return err
		}
	}
	return nil
}

// RemoveMember deletes one membership row
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete soft deletes a group and removes its memberships
func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	result := db.Delete(&models.Group{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return db.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error
}

func groupToEntity(m *models.Group) *entities.Group {
	g := &entities.Group{
		ID:        m.ID,
		Name:      m.Name,
		Icon:      null.StringFromPtr(m.Icon),
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
	for _, member := range m.Members {
		g.MemberIDs = append(g.MemberIDs, member.UserID)
	}
	return g
}
