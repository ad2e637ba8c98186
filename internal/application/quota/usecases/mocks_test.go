package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"karnex/internal/domain/quota"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id uint) (*quota.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.Account), args.Error(1)
}

func (m *mockAccountRepository) Save(ctx context.Context, account *quota.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type mockUsageRepository struct {
	mock.Mock
}

func (m *mockUsageRepository) GetByPeriod(ctx context.Context, userID uint, periodStart time.Time) (*quota.UsageRecord, error) {
	args := m.Called(ctx, userID, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.UsageRecord), args.Error(1)
}

func (m *mockUsageRepository) Increment(ctx context.Context, userID uint, periodStart time.Time, resource quota.Resource) (int64, error) {
	args := m.Called(ctx, userID, periodStart, resource)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageRepository) DeleteOlderThan(ctx context.Context, periodStart time.Time) (int64, error) {
	args := m.Called(ctx, periodStart)
	return args.Get(0).(int64), args.Error(1)
}

type sentNotice struct {
	to     string
	notice quota.QuotaReachedNotice
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
}

func (n *recordingNotifier) SendQuotaReachedEmail(_ context.Context, to string, notice quota.QuotaReachedNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotice{to: to, notice: notice})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
