package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/domain/repositories"
	"github.com/charry07/lavaca-app/internal/domain/split"
	"github.com/charry07/lavaca-app/pkg/joincode"
	"github.com/charry07/lavaca-app/pkg/logger"
)

const (
	defaultCurrency = "COP"

	// joinCodeAttempts bounds the collision-avoidance loop. With a
	// million-entry code space collisions are rare; ten misses in a row
	// means something else is wrong.
	joinCodeAttempts = 10

	// fastPayerWindow is measured from the split moment.
	fastPayerWindow = 60 * time.Second
)

// SessionUsecase owns the payment session lifecycle: creation, joins,
// split application, payment confirmation and closure.
type SessionUsecase struct {
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
	feed        *FeedUsecase
	uow         repositories.UnitOfWork

	// sessionMu serializes Split and ConfirmPayment per join code so
	// "all assigned" and "all confirmed" checks never observe a
	// half-applied write.
	sessionMu *keyedMutex
	now       func() time.Time
}

// NewSessionUsecase creates a new session usecase
func NewSessionUsecase(
	sessionRepo repositories.SessionRepository,
	userRepo repositories.UserRepository,
	feed *FeedUsecase,
	uow repositories.UnitOfWork,
) *SessionUsecase {
	return &SessionUsecase{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		feed:        feed,
		uow:         uow,
		sessionMu:   newKeyedMutex(),
		now:         time.Now,
	}
}

// Create opens a new session and auto-joins the admin as its first
// participant
func (u *SessionUsecase) Create(ctx context.Context, input *entities.CreateSessionInput) (*entities.PaymentSession, error) {
	adminID, err := uuid.Parse(input.AdminID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid adminId")
	}
	if input.TotalAmount <= 0 {
		return nil, domainerrors.BadRequest("totalAmount must be positive")
	}

	mode := entities.SplitMode(input.SplitMode)
	if mode == "" {
		mode = entities.SplitModeEqual
	}
	if !mode.Valid() {
		return nil, domainerrors.BadRequest("invalid splitMode")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	admin, err := u.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	code, err := u.uniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	now := u.now()
	session := &entities.PaymentSession{
		ID:          uuid.New(),
		JoinCode:    code,
		AdminID:     adminID,
		TotalAmount: input.TotalAmount,
		Currency:    currency,
		SplitMode:   mode,
		Status:      entities.SessionStatusOpen,
		Participants: []entities.Participant{
			{
				UserID:      adminID,
				DisplayName: admin.DisplayName,
				Status:      entities.PaymentStatusPending,
				JoinedAt:    now,
			},
		},
		CreatedAt: now,
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		session.Description = null.StringFrom(description)
	}

	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("session created",
		zap.String("join_code", code),
		zap.String("split_mode", string(mode)),
		zap.Int64("total_amount", input.TotalAmount),
	)
	return session, nil
}

// Get fetches a session by join code
func (u *SessionUsecase) Get(ctx context.Context, joinCode string) (*entities.PaymentSession, error) {
	if !joincode.Valid(joinCode) {
		return nil, domainerrors.NotFound("session not found")
	}
	return u.sessionRepo.GetByJoinCode(ctx, joinCode)
}

// Join adds a user to an open session. Joining a session the user is
// already in returns the current state unchanged.
func (u *SessionUsecase) Join(ctx context.Context, joinCode string, input *entities.JoinSessionInput) (*entities.PaymentSession, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid userId")
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, domainerrors.BadRequest("displayName is required")
	}

	u.sessionMu.Lock(joinCode)
	defer u.sessionMu.Unlock(joinCode)

	session, err := u.sessionRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	if p := session.FindParticipant(userID); p != nil {
		return session, nil
	}

	if session.Status != entities.SessionStatusOpen {
		return nil, domainerrors.StateConflict("session is not open")
	}
	if session.SplitAppliedAt.Valid {
		return nil, domainerrors.StateConflict("split already applied")
	}

	err = u.sessionRepo.AddParticipant(ctx, &entities.Participant{
		SessionID:   session.ID,
		UserID:      userID,
		DisplayName: displayName,
		Status:      entities.PaymentStatusPending,
		JoinedAt:    u.now(),
	})
	if err != nil {
		return nil, err
	}

	return u.sessionRepo.GetByJoinCode(ctx, joinCode)
}

// Split computes and assigns every participant's amount according to
// the session's split mode. It can be applied at most once.
func (u *SessionUsecase) Split(ctx context.Context, joinCode string, input *entities.SplitSessionInput) (*entities.PaymentSession, error) {
	u.sessionMu.Lock(joinCode)
	defer u.sessionMu.Unlock(joinCode)

	session, err := u.sessionRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	if session.Status != entities.SessionStatusOpen {
		return nil, domainerrors.StateConflict("session is not open")
	}
	if session.SplitAppliedAt.Valid {
		return nil, domainerrors.StateConflict("split already applied")
	}

	n := len(session.Participants)
	if n == 0 {
		return nil, domainerrors.StateConflict("session has no participants")
	}

	var winnerIndex = -1
	var amounts []int64

	switch session.SplitMode {
	case entities.SplitModeEqual:
		amounts = split.Equal(session.TotalAmount, n)

	case entities.SplitModePercentage:
		if len(input.Percentages) != n {
			return nil, domainerrors.BadRequest("percentages must match participant count")
		}
		amounts, err = split.Percentage(session.TotalAmount, input.Percentages)
		if err != nil {
			return nil, err
		}

	case entities.SplitModeRoulette:
		winnerIndex, err = split.Roulette(n)
		if err != nil {
			return nil, err
		}
		amounts = make([]int64, n)
		amounts[winnerIndex] = session.TotalAmount
	}

	for i := range session.Participants {
		p := &session.Participants[i]
		p.SessionID = session.ID
		p.Amount = amounts[i]
		if session.SplitMode == entities.SplitModePercentage {
			p.Percentage = null.Float64From(input.Percentages[i])
		}
		if session.SplitMode == entities.SplitModeRoulette {
			p.IsRouletteWinner = i == winnerIndex
		}
	}
	session.SplitAppliedAt = null.TimeFrom(u.now())

	// All participants are updated or none are.
	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.sessionRepo.SaveParticipants(ctx, session.Participants); err != nil {
			return err
		}
		return u.sessionRepo.Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	if winnerIndex >= 0 {
		winner := session.Participants[winnerIndex]
		u.emit(ctx, &entities.FeedEvent{
			Type:      entities.FeedEventRouletteWin,
			Message:   rouletteWinMessage(winner.DisplayName, session.TotalAmount),
			SessionID: &session.ID,
			UserIDs:   session.ParticipantUserIDs(),
		})
	}

	return u.sessionRepo.GetByJoinCode(ctx, joinCode)
}

// ConfirmPayment marks a participant's share paid. Confirming an
// already confirmed payment is a no-op. The last confirmation closes
// the session.
func (u *SessionUsecase) ConfirmPayment(ctx context.Context, joinCode string, input *entities.ConfirmPaymentInput) (*entities.PaymentSession, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid userId")
	}

	u.sessionMu.Lock(joinCode)
	defer u.sessionMu.Unlock(joinCode)

	session, err := u.sessionRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	participant := session.FindParticipant(userID)
	if participant == nil {
		return nil, domainerrors.NotFound("participant not found")
	}
	if participant.Status == entities.PaymentStatusConfirmed {
		return session, nil
	}

	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = entities.PaymentMethodOther
	}

	paidAt := u.now()
	participant.SessionID = session.ID
	participant.Status = entities.PaymentStatusConfirmed
	participant.PaymentMethod = null.StringFrom(method)
	participant.PaidAt = null.TimeFrom(paidAt)

	if err := u.sessionRepo.UpdateParticipant(ctx, participant); err != nil {
		return nil, err
	}

	if session.AllConfirmed() && session.Status == entities.SessionStatusOpen {
		session.Status = entities.SessionStatusClosed
		session.ClosedAt = null.TimeFrom(paidAt)
		if err := u.sessionRepo.Update(ctx, session); err != nil {
			return nil, err
		}

		u.emit(ctx, &entities.FeedEvent{
			Type:      entities.FeedEventSessionClosed,
			Message:   sessionClosedMessage(len(session.Participants), session.TotalAmount, session.Description.String),
			SessionID: &session.ID,
			UserIDs:   session.ParticipantUserIDs(),
		})
	}

	if session.SplitAppliedAt.Valid && paidAt.Sub(session.SplitAppliedAt.Time) < fastPayerWindow {
		u.emit(ctx, &entities.FeedEvent{
			Type:      entities.FeedEventFastPayer,
			Message:   fastPayerMessage(participant.DisplayName),
			SessionID: &session.ID,
			UserIDs:   []uuid.UUID{userID},
		})
	}

	return u.sessionRepo.GetByJoinCode(ctx, joinCode)
}

// ListByUser lists the sessions a user participates in, newest first
func (u *SessionUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentSession, error) {
	return u.sessionRepo.ListByUserID(ctx, userID)
}

func (u *SessionUsecase) uniqueJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code := joincode.Generate()
		exists, err := u.sessionRepo.ExistsJoinCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", domainerrors.InternalError(domainerrors.ErrAlreadyExists)
}

// emit publishes a feed event. Feed failures are logged, not surfaced:
// the session mutation already committed.
func (u *SessionUsecase) emit(ctx context.Context, event *entities.FeedEvent) {
	if u.feed == nil {
		return
	}
	if err := u.feed.Emit(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to emit feed event",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}
