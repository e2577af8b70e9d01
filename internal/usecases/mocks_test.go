package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/charry07/lavaca-app/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByDocumentID(ctx context.Context, documentID string) (*entities.User, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

// Mock SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.PaymentSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) GetByJoinCode(ctx context.Context, joinCode string) (*entities.PaymentSession, error) {
	args := m.Called(ctx, joinCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentSession), args.Error(1)
}

func (m *MockSessionRepository) ExistsJoinCode(ctx context.Context, joinCode string) (bool, error) {
	args := m.Called(ctx, joinCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *entities.PaymentSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) AddParticipant(ctx context.Context, participant *entities.Participant) error {
	return m.Called(ctx, participant).Error(0)
}

func (m *MockSessionRepository) SaveParticipants(ctx context.Context, participants []entities.Participant) error {
	return m.Called(ctx, participants).Error(0)
}

func (m *MockSessionRepository) UpdateParticipant(ctx context.Context, participant *entities.Participant) error {
	return m.Called(ctx, participant).Error(0)
}

func (m *MockSessionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PaymentSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentSession), args.Error(1)
}

func (m *MockSessionRepository) ListOpenSplitBefore(ctx context.Context, before time.Time) ([]*entities.PaymentSession, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentSession), args.Error(1)
}

// Mock FeedEventRepository
type MockFeedEventRepository struct {
	mock.Mock
}

func (m *MockFeedEventRepository) Insert(ctx context.Context, event *entities.FeedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockFeedEventRepository) TrimToMax(ctx context.Context, max int) error {
	return m.Called(ctx, max).Error(0)
}

func (m *MockFeedEventRepository) List(ctx context.Context, limit int) ([]*entities.FeedEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FeedEvent), args.Error(1)
}

func (m *MockFeedEventRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.FeedEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FeedEvent), args.Error(1)
}

// Mock OTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Put(ctx context.Context, entry *entities.OTPEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockOTPRepository) Get(ctx context.Context, phone string) (*entities.OTPEntry, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OTPEntry), args.Error(1)
}

func (m *MockOTPRepository) MarkVerified(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

func (m *MockOTPRepository) Delete(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

// Mock GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *entities.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Group), args.Error(1)
}

func (m *MockGroupRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Group), args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *entities.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	return m.Called(ctx, groupID, userIDs).Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return m.Called(ctx, groupID, userID).Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
