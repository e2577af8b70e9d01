package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	JoinCode       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	AdminID        uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalAmount    int64     `gorm:"not null"`
	Currency       string    `gorm:"type:varchar(10);not null;default:'COP'"`
	SplitMode      string    `gorm:"type:varchar(20);not null"`
	Description    *string   `gorm:"type:varchar(500)"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	SplitAppliedAt *time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	Participants []Participant `gorm:"foreignKey:SessionID"`
}

type Participant struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID        uuid.UUID `gorm:"type:uuid;not null;index:idx_participant_session_user,unique"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_participant_session_user,unique;index"`
	DisplayName      string    `gorm:"type:varchar(100);not null"`
	Amount           int64     `gorm:"not null;default:0"`
	Percentage       *float64
	Status           string  `gorm:"type:varchar(20);not null;index"`
	PaymentMethod    *string `gorm:"type:varchar(30)"`
	IsRouletteWinner bool    `gorm:"not null;default:false"`
	IsRouletteCoward bool    `gorm:"not null;default:false"`
	JoinedAt         time.Time
	PaidAt           *time.Time
	RemindedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
