package service

import (
	"context"
	"time"

	"drc-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockContainerRepo
type MockContainerRepo struct {
	mock.Mock
}

func (m *MockContainerRepo) Create(ctx context.Context, c *domain.Container) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContainerRepo) CreateBatch(ctx context.Context, cs []*domain.Container) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}
func (m *MockContainerRepo) GetByID(ctx context.Context, containerID string) (*domain.Container, error) {
	args := m.Called(ctx, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Container), args.Error(1)
}
func (m *MockContainerRepo) GetByRFIDTag(ctx context.Context, tag string) (*domain.Container, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Container), args.Error(1)
}
func (m *MockContainerRepo) ListByLocation(ctx context.Context, locationCode string, page, pageSize int32) ([]domain.Container, int32, error) {
	args := m.Called(ctx, locationCode, page, pageSize)
	return args.Get(0).([]domain.Container), args.Get(1).(int32), args.Error(2)
}
func (m *MockContainerRepo) ListByHolder(ctx context.Context, netID string) ([]domain.Container, error) {
	args := m.Called(ctx, netID)
	return args.Get(0).([]domain.Container), args.Error(1)
}
func (m *MockContainerRepo) CountActiveByHolder(ctx context.Context, netID string) (int, error) {
	args := m.Called(ctx, netID)
	return args.Int(0), args.Error(1)
}
func (m *MockContainerRepo) UpdateStatusCAS(ctx context.Context, containerID string, from, to domain.ContainerStatus) (bool, error) {
	args := m.Called(ctx, containerID, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockContainerRepo) SetCondition(ctx context.Context, containerID string, cond domain.ContainerCondition) error {
	args := m.Called(ctx, containerID, cond)
	return args.Error(0)
}
func (m *MockContainerRepo) MaxSequence(ctx context.Context, locationCode string) (int, error) {
	args := m.Called(ctx, locationCode)
	return args.Int(0), args.Error(1)
}
func (m *MockContainerRepo) InventorySummary(ctx context.Context, locationCode string, now time.Time) (*domain.InventorySummary, error) {
	args := m.Called(ctx, locationCode, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventorySummary), args.Error(1)
}
func (m *MockContainerRepo) ListOverdue(ctx context.Context, now time.Time) ([]domain.Container, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Container), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) CreateCheckout(ctx context.Context, txn *domain.Transaction, dueAt time.Time) error {
	args := m.Called(ctx, txn, dueAt)
	return args.Error(0)
}
func (m *MockTransactionRepo) CloseReturn(ctx context.Context, containerID string, returnAt time.Time, wasLate bool, lateFeeCents *int32, target domain.ContainerStatus) (*domain.Transaction, error) {
	args := m.Called(ctx, containerID, returnAt, wasLate, lateFeeCents, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) GetOpenByContainer(ctx context.Context, containerID string) (*domain.Transaction, error) {
	args := m.Called(ctx, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByUser(ctx context.Context, netID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, netID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) CountReturnsByUser(ctx context.Context, netID string) (int, error) {
	args := m.Called(ctx, netID)
	return args.Int(0), args.Error(1)
}
func (m *MockTransactionRepo) ReturnDays(ctx context.Context, netID string) ([]time.Time, error) {
	args := m.Called(ctx, netID)
	return args.Get(0).([]time.Time), args.Error(1)
}
func (m *MockTransactionRepo) ReturnCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByNetID(ctx context.Context, netID string) (*domain.User, error) {
	args := m.Called(ctx, netID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}
func (m *MockLocationRepo) GetByCode(ctx context.Context, code string) (*domain.Location, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}
func (m *MockLocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Location), args.Error(1)
}
func (m *MockLocationRepo) Update(ctx context.Context, loc *domain.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

// MockImpactStatsRepo
type MockImpactStatsRepo struct {
	mock.Mock
}

func (m *MockImpactStatsRepo) Get(ctx context.Context, netID string) (*domain.ImpactStats, error) {
	args := m.Called(ctx, netID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImpactStats), args.Error(1)
}
func (m *MockImpactStatsRepo) Upsert(ctx context.Context, stats *domain.ImpactStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}
func (m *MockImpactStatsRepo) SetRank(ctx context.Context, netID string, rank int32) error {
	args := m.Called(ctx, netID, rank)
	return args.Error(0)
}
func (m *MockImpactStatsRepo) Leaderboard(ctx context.Context, limit int32) ([]domain.ImpactStats, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ImpactStats), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, netID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, netID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id string, netID string) error {
	args := m.Called(ctx, id, netID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, containerID string, dueAt time.Time) error {
	args := m.Called(ctx, email, name, containerID, dueAt)
	return args.Error(0)
}
func (m *MockEmailService) SendAchievementUnlocked(ctx context.Context, email, name, badge string) error {
	args := m.Called(ctx, email, name, badge)
	return args.Error(0)
}

// MockImpactSvc
type MockImpactSvc struct {
	mock.Mock
}

func (m *MockImpactSvc) GetStats(ctx context.Context, netID string) (*domain.ImpactStats, error) {
	args := m.Called(ctx, netID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImpactStats), args.Error(1)
}
func (m *MockImpactSvc) RecomputeForUser(ctx context.Context, netID string) (*domain.ImpactStats, []string, error) {
	args := m.Called(ctx, netID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ImpactStats), args.Get(1).([]string), args.Error(2)
}
func (m *MockImpactSvc) RecomputeLeaderboard(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockImpactSvc) Leaderboard(ctx context.Context, limit int32) ([]domain.ImpactStats, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ImpactStats), args.Error(1)
}

// MockNotificationSvc
type MockNotificationSvc struct {
	mock.Mock
}

func (m *MockNotificationSvc) GetNotifications(ctx context.Context, netID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, netID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationSvc) MarkAsRead(ctx context.Context, netID, notificationID string) error {
	args := m.Called(ctx, netID, notificationID)
	return args.Error(0)
}
func (m *MockNotificationSvc) NotifyAchievement(ctx context.Context, user *domain.User, badge string) {
	m.Called(ctx, user, badge)
}
func (m *MockNotificationSvc) NotifyOverdue(ctx context.Context, user *domain.User, c *domain.Container) {
	m.Called(ctx, user, c)
}
