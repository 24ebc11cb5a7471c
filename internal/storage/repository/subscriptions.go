package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// CreateSubscription вставляет новую подписку. Уникальный индекс по
// gateway_reference гарантирует не более одной записи на транзакцию шлюза:
// повторная вставка с тем же референсом возвращает ErrAlreadyExists.
// Это единственная точка сериализации гонки verify/webhook.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (uid, user_uid, plan, amount_paid,
			      gateway_reference, discount_code, status, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.UID, sub.UserUID, sub.Plan, sub.AmountPaid, sub.GatewayReference,
		sub.DiscountCode, sub.Status, sub.StartDate, sub.EndDate).Scan(&newUID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetSubscriptionByReference возвращает подписку по референсу транзакции шлюза.
func (s *Storage) GetSubscriptionByReference(ctx context.Context, reference string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByReference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, plan, amount_paid, gateway_reference,
			      discount_code, status, start_date, end_date, created_at
			  FROM subscriptions
			  WHERE gateway_reference = $1`
	row := s.DB.QueryRowContext(ctx, query, reference)

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetLatestActiveSubscription возвращает последнюю созданную активную подписку
// пользователя, срок действия которой ещё не истёк, или ErrNotFound.
func (s *Storage) GetLatestActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error) {
	const op = "storage.GetLatestActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, plan, amount_paid, gateway_reference,
			      discount_code, status, start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND status = $2 AND end_date >= $3
			  ORDER BY created_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID, models.SubscriptionStatusActive, now)

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListSubscriptions возвращает все подписки пользователя, новые первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, plan, amount_paid, gateway_reference,
			      discount_code, status, start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var discountCode sql.NullString
	if err := row.Scan(&sub.UID, &sub.UserUID, &sub.Plan, &sub.AmountPaid,
		&sub.GatewayReference, &discountCode, &sub.Status,
		&sub.StartDate, &sub.EndDate, &sub.CreatedAt); err != nil {
		return nil, err
	}
	if discountCode.Valid {
		sub.DiscountCode = &discountCode.String
	}
	return &sub, nil
}
