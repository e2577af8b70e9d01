package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	"github.com/charry07/lavaca-app/internal/infrastructure/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Participant{},
		&models.FeedEvent{},
		&models.FeedEventUser{},
		&models.Group{},
		&models.GroupMember{},
	), "migrate")
	return db
}

func newTestSession(adminID uuid.UUID, joinCode string, mode entities.SplitMode) *entities.PaymentSession {
	now := time.Now()
	return &entities.PaymentSession{
		ID:          uuid.New(),
		JoinCode:    joinCode,
		AdminID:     adminID,
		TotalAmount: 60000,
		Currency:    "COP",
		SplitMode:   mode,
		Status:      entities.SessionStatusOpen,
		Participants: []entities.Participant{
			{
				UserID:      adminID,
				DisplayName: "Admin",
				Status:      entities.PaymentStatusPending,
				JoinedAt:    now,
			},
		},
		CreatedAt: now,
	}
}
