package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SplitMode represents the algorithm used to allocate the total
type SplitMode string

const (
	SplitModeEqual      SplitMode = "equal"
	SplitModePercentage SplitMode = "percentage"
	SplitModeRoulette   SplitMode = "roulette"
)

// Valid reports whether m is a known split mode.
func (m SplitMode) Valid() bool {
	switch m {
	case SplitModeEqual, SplitModePercentage, SplitModeRoulette:
		return true
	}
	return false
}

// SessionStatus represents session lifecycle status
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
	// SessionStatusCancelled is reserved; no operation currently reaches it.
	SessionStatusCancelled SessionStatus = "cancelled"
)

// PaymentStatus represents a participant's payment status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// PaymentMethodOther is recorded when the payer does not name a method.
const PaymentMethodOther = "other"

// PaymentSession represents one shared expense ("mesa") with a fixed
// total, a chosen split mode, and its participants ordered by join time.
// Amounts are integer minor units of the session currency.
type PaymentSession struct {
	ID             uuid.UUID     `json:"id"`
	JoinCode       string        `json:"joinCode"`
	AdminID        uuid.UUID     `json:"adminId"`
	TotalAmount    int64         `json:"totalAmount"`
	Currency       string        `json:"currency"`
	SplitMode      SplitMode     `json:"splitMode"`
	Description    null.String   `json:"description,omitempty"`
	Status         SessionStatus `json:"status"`
	Participants   []Participant `json:"participants"`
	SplitAppliedAt null.Time     `json:"splitAppliedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	ClosedAt       null.Time     `json:"closedAt,omitempty"`
}

// FindParticipant returns the participant row for a user, or nil.
func (s *PaymentSession) FindParticipant(userID uuid.UUID) *Participant {
	for i := range s.Participants {
		if s.Participants[i].UserID == userID {
			return &s.Participants[i]
		}
	}
	return nil
}

// AllConfirmed reports whether every participant has confirmed payment.
func (s *PaymentSession) AllConfirmed() bool {
	for i := range s.Participants {
		if s.Participants[i].Status != PaymentStatusConfirmed {
			return false
		}
	}
	return len(s.Participants) > 0
}

// ParticipantUserIDs returns the user IDs of all participants in join
// order.
func (s *PaymentSession) ParticipantUserIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Participants))
	for i := range s.Participants {
		ids = append(ids, s.Participants[i].UserID)
	}
	return ids
}

// Participant represents a user's membership and payment record within
// one session. DisplayName is a snapshot taken at join time.
type Participant struct {
	SessionID        uuid.UUID     `json:"-"`
	UserID           uuid.UUID     `json:"userId"`
	DisplayName      string        `json:"displayName"`
	Amount           int64         `json:"amount"`
	Percentage       null.Float64  `json:"percentage,omitempty"`
	Status           PaymentStatus `json:"status"`
	PaymentMethod    null.String   `json:"paymentMethod,omitempty"`
	IsRouletteWinner bool          `json:"isRouletteWinner"`
	IsRouletteCoward bool          `json:"isRouletteCoward"`
	JoinedAt         time.Time     `json:"joinedAt"`
	PaidAt           null.Time     `json:"paidAt,omitempty"`
	RemindedAt       null.Time     `json:"-"`
}

// CreateSessionInput represents input for creating a session
type CreateSessionInput struct {
	AdminID     string `json:"adminId" binding:"required"`
	TotalAmount int64  `json:"totalAmount" binding:"required,gt=0"`
	Currency    string `json:"currency"`
	SplitMode   string `json:"splitMode"`
	Description string `json:"description"`
}

// JoinSessionInput represents input for joining a session
type JoinSessionInput struct {
	UserID      string `json:"userId" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
}

// SplitSessionInput represents input for splitting a session.
// Percentages is only consulted in percentage mode.
type SplitSessionInput struct {
	Percentages []float64 `json:"percentages"`
}

// ConfirmPaymentInput represents input for confirming a payment
type ConfirmPaymentInput struct {
	UserID        string `json:"userId" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}
