package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phone       string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(100);not null"`
	Username    string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DocumentID  *string   `gorm:"type:varchar(30);index"`
	AvatarURL   *string   `gorm:"type:varchar(500)"`
	Email       *string   `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
