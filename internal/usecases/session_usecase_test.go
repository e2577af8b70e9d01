package usecases_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/usecases"
)

type sessionFixture struct {
	sessionRepo *MockSessionRepository
	userRepo    *MockUserRepository
	feedRepo    *MockFeedEventRepository
	uow         *MockUnitOfWork
	uc          *usecases.SessionUsecase
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		sessionRepo: new(MockSessionRepository),
		userRepo:    new(MockUserRepository),
		feedRepo:    new(MockFeedEventRepository),
		uow:         new(MockUnitOfWork),
	}
	feed := usecases.NewFeedUsecase(f.feedRepo, f.uow, 200, 50)
	f.uc = usecases.NewSessionUsecase(f.sessionRepo, f.userRepo, feed, f.uow)
	return f
}

func (f *sessionFixture) allowFeed() {
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.feedRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.feedRepo.On("TrimToMax", mock.Anything, 200).Return(nil)
}

func openSession(joinCode string, mode entities.SplitMode, total int64, userIDs ...uuid.UUID) *entities.PaymentSession {
	now := time.Now().Add(-time.Hour)
	session := &entities.PaymentSession{
		ID:          uuid.New(),
		JoinCode:    joinCode,
		AdminID:     userIDs[0],
		TotalAmount: total,
		Currency:    "COP",
		SplitMode:   mode,
		Status:      entities.SessionStatusOpen,
		CreatedAt:   now,
	}
	names := []string{"Ana", "Beto", "Cata", "Dario", "Elena", "Fredy", "Gloria"}
	for i, userID := range userIDs {
		session.Participants = append(session.Participants, entities.Participant{
			SessionID:   session.ID,
			UserID:      userID,
			DisplayName: names[i%len(names)],
			Status:      entities.PaymentStatusPending,
			JoinedAt:    now.Add(time.Duration(i) * time.Minute),
		})
	}
	return session
}

func TestCreateSessionDefaultsAndAdminAutoJoin(t *testing.T) {
	f := newSessionFixture()

	adminID := uuid.New()
	f.userRepo.On("GetByID", mock.Anything, adminID).Return(&entities.User{ID: adminID, DisplayName: "Ana"}, nil)
	f.sessionRepo.On("ExistsJoinCode", mock.Anything, mock.Anything).Return(false, nil)

	var created *entities.PaymentSession
	f.sessionRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entities.PaymentSession)
	}).Return(nil)

	session, err := f.uc.Create(context.Background(), &entities.CreateSessionInput{
		AdminID:     adminID.String(),
		TotalAmount: 35000,
		Description: "Almuerzo",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Regexp(t, regexp.MustCompile(`^VACA-[A-HJ-NP-Z2-9]{4}$`), session.JoinCode)
	assert.Equal(t, entities.SplitModeEqual, session.SplitMode)
	assert.Equal(t, "COP", session.Currency)
	assert.Equal(t, entities.SessionStatusOpen, session.Status)
	assert.Equal(t, "Almuerzo", session.Description.String)
	require.Len(t, session.Participants, 1)
	assert.Equal(t, adminID, session.Participants[0].UserID)
	assert.Equal(t, "Ana", session.Participants[0].DisplayName)
	assert.Equal(t, int64(0), session.Participants[0].Amount)
}

func TestCreateSessionRetriesJoinCodeCollision(t *testing.T) {
	f := newSessionFixture()

	adminID := uuid.New()
	f.userRepo.On("GetByID", mock.Anything, adminID).Return(&entities.User{ID: adminID, DisplayName: "Ana"}, nil)
	f.sessionRepo.On("ExistsJoinCode", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.sessionRepo.On("ExistsJoinCode", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Create(context.Background(), &entities.CreateSessionInput{
		AdminID:     adminID.String(),
		TotalAmount: 1000,
	})
	require.NoError(t, err)
	f.sessionRepo.AssertNumberOfCalls(t, "ExistsJoinCode", 2)
}

func TestCreateSessionValidation(t *testing.T) {
	f := newSessionFixture()

	_, err := f.uc.Create(context.Background(), &entities.CreateSessionInput{AdminID: "nope", TotalAmount: 1000})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), &entities.CreateSessionInput{AdminID: uuid.NewString(), TotalAmount: 0})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), &entities.CreateSessionInput{AdminID: uuid.NewString(), TotalAmount: 1000, SplitMode: "dice"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestCreateSessionUnknownAdmin(t *testing.T) {
	f := newSessionFixture()

	adminID := uuid.New()
	f.userRepo.On("GetByID", mock.Anything, adminID).Return(nil, domainerrors.ErrNotFound)

	_, err := f.uc.Create(context.Background(), &entities.CreateSessionInput{AdminID: adminID.String(), TotalAmount: 1000})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestJoinSessionAppendsParticipant(t *testing.T) {
	f := newSessionFixture()

	adminID, userID := uuid.New(), uuid.New()
	session := openSession("VACA-AB23", entities.SplitModeEqual, 35000, adminID)
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-AB23").Return(session, nil)

	var added *entities.Participant
	f.sessionRepo.On("AddParticipant", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		added = args.Get(1).(*entities.Participant)
	}).Return(nil)

	_, err := f.uc.Join(context.Background(), "VACA-AB23", &entities.JoinSessionInput{
		UserID:      userID.String(),
		DisplayName: "Beto",
	})
	require.NoError(t, err)

	require.NotNil(t, added)
	assert.Equal(t, session.ID, added.SessionID)
	assert.Equal(t, userID, added.UserID)
	assert.Equal(t, "Beto", added.DisplayName)
	assert.Equal(t, entities.PaymentStatusPending, added.Status)
	assert.Equal(t, int64(0), added.Amount)
}

func TestJoinSessionIdempotentForExistingParticipant(t *testing.T) {
	f := newSessionFixture()

	adminID := uuid.New()
	session := openSession("VACA-AB23", entities.SplitModeEqual, 35000, adminID)
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-AB23").Return(session, nil)

	got, err := f.uc.Join(context.Background(), "VACA-AB23", &entities.JoinSessionInput{
		UserID:      adminID.String(),
		DisplayName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, session, got)
	f.sessionRepo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything)
}

func TestJoinSessionNotOpen(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-AB23", entities.SplitModeEqual, 35000, uuid.New())
	session.Status = entities.SessionStatusClosed
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-AB23").Return(session, nil)

	_, err := f.uc.Join(context.Background(), "VACA-AB23", &entities.JoinSessionInput{
		UserID:      uuid.NewString(),
		DisplayName: "Beto",
	})
	assert.ErrorIs(t, err, domainerrors.ErrStateConflict)
}

func TestJoinSessionAfterSplitApplied(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-AB23", entities.SplitModeEqual, 35000, uuid.New())
	session.SplitAppliedAt = null.TimeFrom(time.Now())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-AB23").Return(session, nil)

	_, err := f.uc.Join(context.Background(), "VACA-AB23", &entities.JoinSessionInput{
		UserID:      uuid.NewString(),
		DisplayName: "Beto",
	})
	assert.ErrorIs(t, err, domainerrors.ErrStateConflict)
}

func TestJoinSessionNotFound(t *testing.T) {
	f := newSessionFixture()

	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-XXXX").Return(nil, domainerrors.ErrNotFound)

	_, err := f.uc.Join(context.Background(), "VACA-XXXX", &entities.JoinSessionInput{
		UserID:      uuid.NewString(),
		DisplayName: "Beto",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSplitEqualAssignsAmountsAtomically(t *testing.T) {
	f := newSessionFixture()
	f.allowFeed()

	ids := make([]uuid.UUID, 7)
	for i := range ids {
		ids[i] = uuid.New()
	}
	session := openSession("VACA-EQ07", entities.SplitModeEqual, 35000, ids...)
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-EQ07").Return(session, nil)

	var saved []entities.Participant
	f.sessionRepo.On("SaveParticipants", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]entities.Participant)
	}).Return(nil)

	var updated *entities.PaymentSession
	f.sessionRepo.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(*entities.PaymentSession)
	}).Return(nil)

	_, err := f.uc.Split(context.Background(), "VACA-EQ07", &entities.SplitSessionInput{})
	require.NoError(t, err)

	require.Len(t, saved, 7)
	var sum int64
	for _, p := range saved {
		assert.Equal(t, int64(5000), p.Amount)
		sum += p.Amount
	}
	assert.Equal(t, int64(35000), sum)

	require.NotNil(t, updated)
	assert.True(t, updated.SplitAppliedAt.Valid)
	f.uow.AssertCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestSplitPercentageAssignsPerPercentages(t *testing.T) {
	f := newSessionFixture()
	f.allowFeed()

	session := openSession("VACA-PC03", entities.SplitModePercentage, 100000, uuid.New(), uuid.New(), uuid.New())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-PC03").Return(session, nil)

	var saved []entities.Participant
	f.sessionRepo.On("SaveParticipants", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]entities.Participant)
	}).Return(nil)
	f.sessionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Split(context.Background(), "VACA-PC03", &entities.SplitSessionInput{
		Percentages: []float64{50, 30, 20},
	})
	require.NoError(t, err)

	require.Len(t, saved, 3)
	assert.Equal(t, int64(50000), saved[0].Amount)
	assert.Equal(t, int64(30000), saved[1].Amount)
	assert.Equal(t, int64(20000), saved[2].Amount)
	assert.Equal(t, 50.0, saved[0].Percentage.Float64)
}

func TestSplitPercentageCountMismatch(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-PC03", entities.SplitModePercentage, 100000, uuid.New(), uuid.New(), uuid.New())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-PC03").Return(session, nil)

	_, err := f.uc.Split(context.Background(), "VACA-PC03", &entities.SplitSessionInput{
		Percentages: []float64{50, 50},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestSplitPercentageBadSum(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-PC03", entities.SplitModePercentage, 100000, uuid.New(), uuid.New())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-PC03").Return(session, nil)

	_, err := f.uc.Split(context.Background(), "VACA-PC03", &entities.SplitSessionInput{
		Percentages: []float64{50, 49},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "percentages must sum to 100")
}

func TestSplitRouletteEmitsEventToAllParticipants(t *testing.T) {
	f := newSessionFixture()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	session := openSession("VACA-RL04", entities.SplitModeRoulette, 80000, ids...)
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-RL04").Return(session, nil)

	var saved []entities.Participant
	f.sessionRepo.On("SaveParticipants", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]entities.Participant)
	}).Return(nil)
	f.sessionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	var emitted *entities.FeedEvent
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.feedRepo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		emitted = args.Get(1).(*entities.FeedEvent)
	}).Return(nil)
	f.feedRepo.On("TrimToMax", mock.Anything, 200).Return(nil)

	_, err := f.uc.Split(context.Background(), "VACA-RL04", &entities.SplitSessionInput{})
	require.NoError(t, err)

	winners := 0
	var winnerName string
	var sum int64
	for _, p := range saved {
		sum += p.Amount
		if p.IsRouletteWinner {
			winners++
			winnerName = p.DisplayName
			assert.Equal(t, int64(80000), p.Amount)
		} else {
			assert.Equal(t, int64(0), p.Amount)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, int64(80000), sum)

	require.NotNil(t, emitted)
	assert.Equal(t, entities.FeedEventRouletteWin, emitted.Type)
	assert.Len(t, emitted.UserIDs, 4)
	assert.Contains(t, emitted.Message, winnerName)
	assert.Contains(t, emitted.Message, "$ 80.000")
	require.NotNil(t, emitted.SessionID)
	assert.Equal(t, session.ID, *emitted.SessionID)
}

func TestSplitRejectedOnceApplied(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-RS01", entities.SplitModeEqual, 35000, uuid.New(), uuid.New())
	session.SplitAppliedAt = null.TimeFrom(time.Now())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-RS01").Return(session, nil)

	_, err := f.uc.Split(context.Background(), "VACA-RS01", &entities.SplitSessionInput{})
	assert.ErrorIs(t, err, domainerrors.ErrStateConflict)
	f.sessionRepo.AssertNotCalled(t, "SaveParticipants", mock.Anything, mock.Anything)
}

func TestSplitOnClosedSession(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-CL01", entities.SplitModeEqual, 35000, uuid.New())
	session.Status = entities.SessionStatusClosed
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CL01").Return(session, nil)

	_, err := f.uc.Split(context.Background(), "VACA-CL01", &entities.SplitSessionInput{})
	assert.ErrorIs(t, err, domainerrors.ErrStateConflict)
}

func TestConfirmPaymentRecordsMethodAndPaidAt(t *testing.T) {
	f := newSessionFixture()
	f.allowFeed()

	adminID, payerID := uuid.New(), uuid.New()
	session := openSession("VACA-CP01", entities.SplitModeEqual, 40000, adminID, payerID)
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP01").Return(session, nil)

	var updated *entities.Participant
	f.sessionRepo.On("UpdateParticipant", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(*entities.Participant)
	}).Return(nil)

	_, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP01", &entities.ConfirmPaymentInput{
		UserID:        payerID.String(),
		PaymentMethod: "nequi",
	})
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, entities.PaymentStatusConfirmed, updated.Status)
	assert.Equal(t, "nequi", updated.PaymentMethod.String)
	assert.True(t, updated.PaidAt.Valid)
	// Not all confirmed yet, session stays open.
	f.sessionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmPaymentDefaultsMethodToOther(t *testing.T) {
	f := newSessionFixture()
	f.allowFeed()

	payerID := uuid.New()
	session := openSession("VACA-CP02", entities.SplitModeEqual, 40000, payerID, uuid.New())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP02").Return(session, nil)

	var updated *entities.Participant
	f.sessionRepo.On("UpdateParticipant", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(*entities.Participant)
	}).Return(nil)

	_, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP02", &entities.ConfirmPaymentInput{
		UserID: payerID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentMethodOther, updated.PaymentMethod.String)
}

func TestConfirmPaymentLastConfirmationClosesSession(t *testing.T) {
	f := newSessionFixture()

	adminID, lastID := uuid.New(), uuid.New()
	session := openSession("VACA-CP03", entities.SplitModeEqual, 40000, adminID, lastID)
	session.Description = null.StringFrom("Asado")
	session.Participants[0].Status = entities.PaymentStatusConfirmed
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP03").Return(session, nil)
	f.sessionRepo.On("UpdateParticipant", mock.Anything, mock.Anything).Return(nil)

	var closed *entities.PaymentSession
	f.sessionRepo.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		closed = args.Get(1).(*entities.PaymentSession)
	}).Return(nil)

	var emitted *entities.FeedEvent
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.feedRepo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		emitted = args.Get(1).(*entities.FeedEvent)
	}).Return(nil)
	f.feedRepo.On("TrimToMax", mock.Anything, 200).Return(nil)

	_, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP03", &entities.ConfirmPaymentInput{
		UserID: lastID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, closed)
	assert.Equal(t, entities.SessionStatusClosed, closed.Status)
	assert.True(t, closed.ClosedAt.Valid)

	require.NotNil(t, emitted)
	assert.Equal(t, entities.FeedEventSessionClosed, emitted.Type)
	assert.Contains(t, emitted.Message, "2 personas")
	assert.Contains(t, emitted.Message, "$ 40.000")
	assert.Contains(t, emitted.Message, "Asado")
	assert.Len(t, emitted.UserIDs, 2)
}

func TestConfirmPaymentFastPayer(t *testing.T) {
	f := newSessionFixture()

	payerID := uuid.New()
	session := openSession("VACA-CP04", entities.SplitModeEqual, 40000, payerID, uuid.New())
	session.SplitAppliedAt = null.TimeFrom(time.Now().Add(-30 * time.Second))
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP04").Return(session, nil)
	f.sessionRepo.On("UpdateParticipant", mock.Anything, mock.Anything).Return(nil)

	var emitted *entities.FeedEvent
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.feedRepo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		emitted = args.Get(1).(*entities.FeedEvent)
	}).Return(nil)
	f.feedRepo.On("TrimToMax", mock.Anything, 200).Return(nil)

	_, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP04", &entities.ConfirmPaymentInput{
		UserID: payerID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, emitted)
	assert.Equal(t, entities.FeedEventFastPayer, emitted.Type)
	assert.Equal(t, []uuid.UUID{payerID}, emitted.UserIDs)
	assert.Contains(t, emitted.Message, "menos de 1 minuto")
}

func TestConfirmPaymentNotFastAfterWindow(t *testing.T) {
	f := newSessionFixture()
	f.allowFeed()

	payerID := uuid.New()
	session := openSession("VACA-CP05", entities.SplitModeEqual, 40000, payerID, uuid.New())
	session.SplitAppliedAt = null.TimeFrom(time.Now().Add(-2 * time.Minute))
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP05").Return(session, nil)
	f.sessionRepo.On("UpdateParticipant", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP05", &entities.ConfirmPaymentInput{
		UserID: payerID.String(),
	})
	require.NoError(t, err)
	f.feedRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	f := newSessionFixture()

	payerID := uuid.New()
	session := openSession("VACA-CP06", entities.SplitModeEqual, 40000, payerID, uuid.New())
	session.Participants[0].Status = entities.PaymentStatusConfirmed
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP06").Return(session, nil)

	got, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP06", &entities.ConfirmPaymentInput{
		UserID: payerID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, session, got)
	f.sessionRepo.AssertNotCalled(t, "UpdateParticipant", mock.Anything, mock.Anything)
}

func TestConfirmPaymentUnknownParticipant(t *testing.T) {
	f := newSessionFixture()

	session := openSession("VACA-CP07", entities.SplitModeEqual, 40000, uuid.New())
	f.sessionRepo.On("GetByJoinCode", mock.Anything, "VACA-CP07").Return(session, nil)

	_, err := f.uc.ConfirmPayment(context.Background(), "VACA-CP07", &entities.ConfirmPaymentInput{
		UserID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListByUser(t *testing.T) {
	f := newSessionFixture()

	userID := uuid.New()
	sessions := []*entities.PaymentSession{openSession("VACA-LS01", entities.SplitModeEqual, 1000, userID)}
	f.sessionRepo.On("ListByUserID", mock.Anything, userID).Return(sessions, nil)

	got, err := f.uc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, sessions, got)
}
