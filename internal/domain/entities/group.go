package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Group represents a named set of users who regularly split expenses.
type Group struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Icon      null.String `json:"icon,omitempty"`
	CreatedBy uuid.UUID   `json:"createdBy"`
	MemberIDs []uuid.UUID `json:"memberIds"`
	Members   []*User     `json:"members,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateGroupInput represents input for creating a group
type CreateGroupInput struct {
	Name      string   `json:"name" binding:"required"`
	Icon      string   `json:"icon"`
	CreatedBy string   `json:"createdBy" binding:"required"`
	MemberIDs []string `json:"memberIds"`
}

// UpdateGroupInput represents input for renaming a group
type UpdateGroupInput struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// AddMembersInput represents input for adding members to a group
type AddMembersInput struct {
	UserIDs []string `json:"userIds" binding:"required"`
}
