package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

const postgresPort = nat.Port("5432/tcp")

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, email, passwordHash string, isSubscribed bool) string {
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, password_hash, is_subscribed)
		VALUES ($1, $2, $3) RETURNING uid`,
		email, passwordHash, isSubscribed).Scan(&uid)
	require.NoError(t, err)
	return uid
}

// CreateSubscription создает тестовую подписку
func (f *TestDataFactory) CreateSubscription(t *testing.T, userUID, plan, reference, status string,
	amountPaid int64, startDate, endDate time.Time) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO subscriptions
		(uid, user_uid, plan, amount_paid, gateway_reference, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uid, userUID, plan, amountPaid, reference, status, startDate, endDate)
	require.NoError(t, err)
	return uid
}

// GetTestSubscription возвращает стандартные тестовые данные подписки
func GetTestSubscription(userUID, reference string) models.Subscription {
	startDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	return models.Subscription{
		UID:              uuid.New().String(),
		UserUID:          userUID,
		Plan:             "standard_monthly",
		AmountPaid:       1600000,
		GatewayReference: reference,
		Status:           models.SubscriptionStatusActive,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, 1, 0),
	}
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(postgresPort),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, postgresPort)
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS pgcrypto;

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            is_subscribed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE subscriptions (
            uid UUID PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users (uid),
            plan TEXT NOT NULL,
            amount_paid BIGINT NOT NULL,
            gateway_reference TEXT NOT NULL,
            discount_code TEXT,
            status TEXT NOT NULL DEFAULT 'active',
            start_date TIMESTAMPTZ NOT NULL,
            end_date TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE UNIQUE INDEX subscriptions_gateway_reference_key
            ON subscriptions (gateway_reference);

        CREATE INDEX subscriptions_user_uid_idx
            ON subscriptions (user_uid, created_at DESC);
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		_ = container.Terminate(ctx)
	}

	return storage, cleanup
}
