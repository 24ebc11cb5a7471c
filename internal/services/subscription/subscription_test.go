package subscription

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetLatestActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSubscriptionService_GetActive(t *testing.T) {
	endDate := time.Now().UTC().AddDate(0, 1, 0)
	active := &models.Subscription{
		UID:     "sub-1",
		UserUID: "user-1",
		Plan:    "standard_monthly",
		Status:  models.SubscriptionStatusActive,
		EndDate: endDate,
	}

	t.Run("действующая подписка возвращается сводкой", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSubscriptionService(repo, nil, testLogger())

		repo.On("GetLatestActiveSubscription", mock.Anything, "user-1", mock.Anything).
			Return(active, nil)

		summary, err := svc.GetActive(context.Background(), "user-1")
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, "standard_monthly", summary.Plan)
		assert.Equal(t, models.SubscriptionStatusActive, summary.Status)
		assert.Equal(t, endDate, summary.EndDate)
	})

	t.Run("без действующей подписки возвращается nil", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSubscriptionService(repo, nil, testLogger())

		repo.On("GetLatestActiveSubscription", mock.Anything, "user-1", mock.Anything).
			Return(nil, repository.ErrNotFound)

		summary, err := svc.GetActive(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Nil(t, summary)
	})

	t.Run("ошибка хранилища пробрасывается", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSubscriptionService(repo, nil, testLogger())

		repo.On("GetLatestActiveSubscription", mock.Anything, "user-1", mock.Anything).
			Return(nil, errors.New("db error"))

		_, err := svc.GetActive(context.Background(), "user-1")
		require.Error(t, err)
	})

	t.Run("промах кеша пишет сводку в кеш", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewSubscriptionService(repo, cache, testLogger())

		cache.On("Get", "subscription:active:user-1", mock.Anything).Return(false, nil)
		repo.On("GetLatestActiveSubscription", mock.Anything, "user-1", mock.Anything).
			Return(active, nil)
		cache.On("Set", "subscription:active:user-1", mock.Anything, cacheTTL).Return(nil)

		summary, err := svc.GetActive(context.Background(), "user-1")
		require.NoError(t, err)
		require.NotNil(t, summary)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш не ходит в хранилище", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewSubscriptionService(repo, cache, testLogger())

		cache.On("Get", "subscription:active:user-1", mock.Anything).
			Run(func(args mock.Arguments) {
				out := args.Get(1).(*models.SubscriptionSummary)
				*out = models.SubscriptionSummary{
					Plan:    "pro_yearly",
					Status:  models.SubscriptionStatusActive,
					EndDate: endDate,
				}
			}).Return(true, nil)

		summary, err := svc.GetActive(context.Background(), "user-1")
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, "pro_yearly", summary.Plan)
		repo.AssertNotCalled(t, "GetLatestActiveSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("истёкшая запись в кеше игнорируется", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewSubscriptionService(repo, cache, testLogger())

		cache.On("Get", "subscription:active:user-1", mock.Anything).
			Run(func(args mock.Arguments) {
				out := args.Get(1).(*models.SubscriptionSummary)
				*out = models.SubscriptionSummary{
					Plan:    "standard_monthly",
					Status:  models.SubscriptionStatusActive,
					EndDate: time.Now().UTC().Add(-time.Hour),
				}
			}).Return(true, nil)
		repo.On("GetLatestActiveSubscription", mock.Anything, "user-1", mock.Anything).
			Return(nil, repository.ErrNotFound)

		summary, err := svc.GetActive(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Nil(t, summary)
	})
}
