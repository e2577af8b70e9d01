package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/charry07/lavaca-app/internal/domain/entities"
)

// SessionRepository defines payment session data operations.
// Sessions are addressed by their join code, which is unique for the
// session's whole life.
type SessionRepository interface {
	// Create persists the session together with its initial participants.
	Create(ctx context.Context, session *entities.PaymentSession) error
	GetByJoinCode(ctx context.Context, joinCode string) (*entities.PaymentSession, error)
	ExistsJoinCode(ctx context.Context, joinCode string) (bool, error)
	// Update persists session-level fields (status, closedAt, splitAppliedAt).
	Update(ctx context.Context, session *entities.PaymentSession) error
	AddParticipant(ctx context.Context, participant *entities.Participant) error
	// SaveParticipants overwrites the mutable fields of every given
	// participant row. Callers wanting all-or-nothing semantics run it
	// inside a UnitOfWork.
	SaveParticipants(ctx context.Context, participants []entities.Participant) error
	UpdateParticipant(ctx context.Context, participant *entities.Participant) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentSession, error)
	// ListOpenSplitBefore returns open sessions whose split was applied
	// before the given instant. Used by the debt reminder job.
	ListOpenSplitBefore(ctx context.Context, before time.Time) ([]*entities.PaymentSession, error)
}
