package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/domain/repositories"
)

// GroupUsecase handles recurring-group management
type GroupUsecase struct {
	groupRepo repositories.GroupRepository
	userRepo  repositories.UserRepository
}

// NewGroupUsecase creates a new group usecase
func NewGroupUsecase(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository) *GroupUsecase {
	return &GroupUsecase{groupRepo: groupRepo, userRepo: userRepo}
}

// Create creates a group. The creator is always a member.
func (u *GroupUsecase) Create(ctx context.Context, input *entities.CreateGroupInput) (*entities.Group, error) {
	createdBy, err := uuid.Parse(input.CreatedBy)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid createdBy")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.BadRequest("name is required")
	}

	if _, err := u.userRepo.GetByID(ctx, createdBy); err != nil {
		return nil, err
	}

	memberIDs := []uuid.UUID{createdBy}
	seen := map[uuid.UUID]bool{createdBy: true}
	for _, raw := range input.MemberIDs {
		memberID, err := uuid.Parse(raw)
		if err != nil {
			return nil, domainerrors.BadRequest("invalid memberIds")
		}
		if seen[memberID] {
			continue
		}
		seen[memberID] = true
		memberIDs = append(memberIDs, memberID)
	}

	group := &entities.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: createdBy,
		MemberIDs: memberIDs,
	}
	if icon := strings.TrimSpace(input.Icon); icon != "" {
		group.Icon = null.StringFrom(icon)
	}

	if err := u.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return u.groupRepo.GetByID(ctx, group.ID)
}

// Get fetches a group with its members resolved
func (u *GroupUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Group, error) {
	group, err := u.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.resolveMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListByUser lists the groups a user belongs to
func (u *GroupUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Group, error) {
	return u.groupRepo.ListByUserID(ctx, userID)
}

// Update renames a group or changes its icon. Only the creator may
// update a group.
func (u *GroupUsecase) Update(ctx context.Context, id, callerID uuid.UUID, input *entities.UpdateGroupInput) (*entities.Group, error) {
	group, err := u.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != callerID {
		return nil, domainerrors.Forbidden("only the group creator can update it")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		group.Name = name
	}
	if input.Icon != nil {
		group.Icon = null.StringFrom(*input.Icon)
	}

	if err := u.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return u.groupRepo.GetByID(ctx, id)
}

// AddMembers adds users to a group, skipping existing members
func (u *GroupUsecase) AddMembers(ctx context.Context, id uuid.UUID, input *entities.AddMembersInput) (*entities.Group, error) {
	if _, err := u.groupRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(input.UserIDs))
	for _, raw := range input.UserIDs {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return nil, domainerrors.BadRequest("invalid userIds")
		}
		userIDs = append(userIDs, userID)
	}
	if len(userIDs) == 0 {
		return nil, domainerrors.BadRequest("userIds is required")
	}

	if err := u.groupRepo.AddMembers(ctx, id, userIDs); err != nil {
		return nil, err
	}
	return u.groupRepo.GetByID(ctx, id)
}

// RemoveMember removes one user from a group. The creator cannot be
// removed.
func (u *GroupUsecase) RemoveMember(ctx context.Context, id, userID uuid.UUID) (*entities.Group, error) {
	group, err := u.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy == userID {
		return nil, domainerrors.StateConflict("the group creator cannot be removed")
	}

	if err := u.groupRepo.RemoveMember(ctx, id, userID); err != nil {
		return nil, err
	}
	return u.groupRepo.GetByID(ctx, id)
}

// Delete removes a group. Only the creator may delete it.
func (u *GroupUsecase) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	group, err := u.groupRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group.CreatedBy != callerID {
		return domainerrors.Forbidden("only the group creator can delete it")
	}
	return u.groupRepo.Delete(ctx, id)
}

func (u *GroupUsecase) resolveMembers(ctx context.Context, group *entities.Group) error {
	for _, memberID := range group.MemberIDs {
		user, err := u.userRepo.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return err
		}
		group.Members = append(group.Members, user)
	}
	return nil
}
