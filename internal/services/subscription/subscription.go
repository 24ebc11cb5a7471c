// Package subscription содержит проекцию текущего статуса подписки пользователя.
//
// Проекция строится только по записям подписок и не зависит от булева флага
// на пользователе — флаг обновляется при сверке платежа и может отставать.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/storage/repository"
)

// SubscriptionRepository определяет методы для чтения подписок из хранилища.
type SubscriptionRepository interface {
	// GetLatestActiveSubscription возвращает последнюю активную подписку
	// с неистёкшим сроком или repository.ErrNotFound.
	GetLatestActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error)
	// ListSubscriptions возвращает подписки пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// cacheTTL — время жизни закешированной проекции. Короткое, потому что
// активация новой подписки инвалидирует ключ, а истечение по дате кеш
// замечает только после TTL.
const cacheTTL = 5 * time.Minute

// SubscriptionService реализует read-only проекцию подписок с кешированием.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// cache может быть nil — тогда чтение всегда идёт в хранилище.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetActive возвращает сводку действующей подписки пользователя
// или nil, если действующей подписки нет. Состояние не изменяется.
func (s *SubscriptionService) GetActive(ctx context.Context, userUID string) (*models.SubscriptionSummary, error) {
	const op = "subscription.GetActive"

	cacheKey := fmt.Sprintf("subscription:active:%s", userUID)
	if s.cache != nil {
		var cached models.SubscriptionSummary
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
		}
		// Кешированная запись могла истечь по дате после записи в кеш.
		if found && err == nil && cached.EndDate.After(time.Now().UTC()) {
			return &cached, nil
		}
	}

	sub, err := s.repo.GetLatestActiveSubscription(ctx, userUID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := &models.SubscriptionSummary{
		Plan:    sub.Plan,
		Status:  sub.Status,
		EndDate: sub.EndDate,
	}
	if s.cache != nil {
		if err := s.cache.Set(cacheKey, summary, cacheTTL); err != nil {
			s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return summary, nil
}

// List возвращает список подписок пользователя с пагинацией.
func (s *SubscriptionService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userUID, limit, offset)
}
