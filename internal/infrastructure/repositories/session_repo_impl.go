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

// SessionRepository implements payment session data operations
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists the session together with its initial participants
func (r *SessionRepository) Create(ctx context.Context, session *entities.PaymentSession) error {
	m := sessionToModel(session)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByJoinCode gets a session with its participants ordered by join time
func (r *SessionRepository) GetByJoinCode(ctx context.Context, joinCode string) (*entities.PaymentSession, error) {
	var m models.Session
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Where("join_code = ?", joinCode).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return sessionToEntity(&m), nil
}

// ExistsJoinCode reports whether a session already uses the join code
func (r *SessionRepository) ExistsJoinCode(ctx context.Context, joinCode string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Session{}).
		Where("join_code = ?", joinCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists session-level fields
func (r *SessionRepository) Update(ctx context.Context, session *entities.PaymentSession) error {
	updates := map[string]interface{}{
		"status":     string(session.Status),
		"updated_at": time.Now(),
	}
	if session.SplitAppliedAt.Valid {
		updates["split_applied_at"] = session.SplitAppliedAt.Time
	}
	if session.ClosedAt.Valid {
		updates["closed_at"] = session.ClosedAt.Time
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AddParticipant inserts a participant row for a session
func (r *SessionRepository) AddParticipant(ctx context.Context, participant *entities.Participant) error {
	m := participantToModel(participant)
	m.ID = uuid.New()
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// SaveParticipants overwrites the mutable fields of every given
// participant row
func (r *SessionRepository) SaveParticipants(ctx context.Context, participants []entities.Participant) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	for i := range participants {
		p := &participants[i]
		result := db.Model(&models.Participant{}).
			Where("session_id = ? AND user_id = ?", p.SessionID, p.UserID).
			Updates(participantUpdates(p))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
	}
	return nil
}

// UpdateParticipant overwrites the mutable fields of one participant row
func (r *SessionRepository) UpdateParticipant(ctx context.Context, participant *entities.Participant) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Participant{}).
		Where("session_id = ? AND user_id = ?", participant.SessionID, participant.UserID).
		Updates(participantUpdates(participant))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByUserID lists sessions the user participates in, newest first
func (r *SessionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentSession, error) {
	var sessionModels []models.Session
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Joins("JOIN participants ON participants.session_id = sessions.id").
		Where("participants.user_id = ?", userID).
		Order("sessions.created_at DESC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*entities.PaymentSession, 0, len(sessionModels))
	for i := range sessionModels {
		sessions = append(sessions, sessionToEntity(&sessionModels[i]))
	}
	return sessions, nil
}

// ListOpenSplitBefore returns open sessions whose split was applied
// before the given instant
func (r *SessionRepository) ListOpenSplitBefore(ctx context.Context, before time.Time) ([]*entities.PaymentSession, error) {
	var sessionModels []models.Session
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Where("status = ? AND split_applied_at IS NOT NULL AND split_applied_at < ?", string(entities.SessionStatusOpen), before).
		Find(&sessionModels).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*entities.PaymentSession, 0, len(sessionModels))
	for i := range sessionModels {
		sessions = append(sessions, sessionToEntity(&sessionModels[i]))
	}
	return sessions, nil
}

func participantUpdates(p *entities.Participant) map[string]interface{} {
	updates := map[string]interface{}{
		"amount":             p.Amount,
		"status":             string(p.Status),
		"is_roulette_winner": p.IsRouletteWinner,
		"is_roulette_coward": p.IsRouletteCoward,
		"updated_at":         time.Now(),
	}
	if p.Percentage.Valid {
		updates["percentage"] = p.Percentage.Float64
	}
	if p.PaymentMethod.Valid {
		updates["payment_method"] = p.PaymentMethod.String
	}
	if p.PaidAt.Valid {
		updates["paid_at"] = p.PaidAt.Time
	}
	if p.RemindedAt.Valid {
		updates["reminded_at"] = p.RemindedAt.Time
	}
	return updates
}

func sessionToModel(s *entities.PaymentSession) *models.Session {
	m := &models.Session{
		ID:             s.ID,
		JoinCode:       s.JoinCode,
		AdminID:        s.AdminID,
		TotalAmount:    s.TotalAmount,
		Currency:       s.Currency,
		SplitMode:      string(s.SplitMode),
		Description:    s.Description.Ptr(),
		Status:         string(s.Status),
		SplitAppliedAt: s.SplitAppliedAt.Ptr(),
		ClosedAt:       s.ClosedAt.Ptr(),
		CreatedAt:      s.CreatedAt,
	}
	for i := range s.Participants {
		pm := participantToModel(&s.Participants[i])
		pm.ID = uuid.New()
		pm.SessionID = s.ID
		m.Participants = append(m.Participants, *pm)
	}
	return m
}

func participantToModel(p *entities.Participant) *models.Participant {
	return &models.Participant{
		SessionID:        p.SessionID,
		UserID:           p.UserID,
		DisplayName:      p.DisplayName,
		Amount:           p.Amount,
		Percentage:       p.Percentage.Ptr(),
		Status:           string(p.Status),
		PaymentMethod:    p.PaymentMethod.Ptr(),
		IsRouletteWinner: p.IsRouletteWinner,
		IsRouletteCoward: p.IsRouletteCoward,
		JoinedAt:         p.JoinedAt,
		PaidAt:           p.PaidAt.Ptr(),
		RemindedAt:       p.RemindedAt.Ptr(),
	}
}

func sessionToEntity(m *models.Session) *entities.PaymentSession {
	s := &entities.PaymentSession{
		ID:             m.ID,
		JoinCode:       m.JoinCode,
		AdminID:        m.AdminID,
		TotalAmount:    m.TotalAmount,
		Currency:       m.Currency,
		SplitMode:      entities.SplitMode(m.SplitMode),
		Description:    null.StringFromPtr(m.Description),
		Status:         entities.SessionStatus(m.Status),
		SplitAppliedAt: null.TimeFromPtr(m.SplitAppliedAt),
		CreatedAt:      m.CreatedAt,
		ClosedAt:       null.TimeFromPtr(m.ClosedAt),
	}
	for i := range m.Participants {
		p := &m.Participants[i]
		s.Participants = append(s.Participants, entities.Participant{
			SessionID:        p.SessionID,
			UserID:           p.UserID,
			DisplayName:      p.DisplayName,
			Amount:           p.Amount,
			Percentage:       null.Float64FromPtr(p.Percentage),
			Status:           entities.PaymentStatus(p.Status),
			PaymentMethod:    null.StringFromPtr(p.PaymentMethod),
			IsRouletteWinner: p.IsRouletteWinner,
			IsRouletteCoward: p.IsRouletteCoward,
			JoinedAt:         p.JoinedAt,
			PaidAt:           null.TimeFromPtr(p.PaidAt),
			RemindedAt:       null.TimeFromPtr(p.RemindedAt),
		})
	}
	return s
}
