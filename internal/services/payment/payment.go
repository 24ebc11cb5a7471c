// Package payment содержит бизнес-логику платёжного цикла: инициализацию
// транзакции в шлюзе и сверку успешного платежа с активацией подписки.
//
// Сверка вызывается из двух точек — клиентской верификации по референсу и
// webhook-события шлюза — и обязана быть идемпотентной: обе точки могут
// увидеть одну и ту же успешную транзакцию, в том числе одновременно.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-billing/internal/catalog"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/period"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/paymentprovider"
	"github.com/magabrotheeeer/subscription-billing/internal/services/pricing"
	"github.com/magabrotheeeer/subscription-billing/internal/storage/repository"
)

// Ошибки платёжного цикла.
var (
	// ErrPaymentInit — шлюз не смог инициализировать транзакцию.
	ErrPaymentInit = errors.New("payment initialization failed")
	// ErrPaymentVerification — шлюз сообщил неуспешный статус транзакции.
	ErrPaymentVerification = errors.New("payment verification failed")
	// ErrInvalidIntent — метаданные транзакции не содержат корректного намерения.
	ErrInvalidIntent = errors.New("invalid transaction intent")
)

// UserRepository описывает операции с пользователями, нужные платёжному циклу.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateSubscribedFlag(ctx context.Context, userUID string, isSubscribed bool) error
}

// SubscriptionRepository описывает операции с подписками.
// CreateSubscription обязан возвращать repository.ErrAlreadyExists при
// повторном референсе — это контракт идемпотентности сверки.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	GetSubscriptionByReference(ctx context.Context, reference string) (*models.Subscription, error)
}

// GatewayClient описывает операции платёжного шлюза.
type GatewayClient interface {
	InitializeTransaction(ctx context.Context, req paymentprovider.InitializeTransactionRequest) (*paymentprovider.InitializeTransactionResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*paymentprovider.VerifyTransactionResponse, error)
}

// EventPublisher публикует события биллинга в брокер.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// CacheInvalidator сбрасывает закешированные проекции подписок.
type CacheInvalidator interface {
	Invalidate(key string) error
}

// InitializeResult — результат инициализации транзакции.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// ActivationEvent — событие активации подписки, публикуемое в брокер.
type ActivationEvent struct {
	UserUID   string    `json:"user_uid"`
	Plan      string    `json:"plan"`
	Reference string    `json:"reference"`
	EndDate   time.Time `json:"end_date"`
}

// Service реализует инициализацию и сверку платежей.
type Service struct {
	users     UserRepository
	subs      SubscriptionRepository
	gateway   GatewayClient
	pricer    *pricing.Service
	catalog   *catalog.Catalog
	events    EventPublisher
	cache     CacheInvalidator
	currency  string
	returnURL string
	log       *slog.Logger
}

// New создает новый экземпляр Service. events и cache могут быть nil —
// тогда публикация событий и сброс кеша пропускаются.
func New(users UserRepository, subs SubscriptionRepository, gateway GatewayClient,
	pricer *pricing.Service, cat *catalog.Catalog, events EventPublisher,
	cache CacheInvalidator, currency, returnURL string, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		subs:      subs,
		gateway:   gateway,
		pricer:    pricer,
		catalog:   cat,
		events:    events,
		cache:     cache,
		currency:  currency,
		returnURL: returnURL,
		log:       log,
	}
}

// InitializePayment рассчитывает стоимость плана и создает транзакцию в шлюзе.
//
// Намерение транзакции уходит в метаданные шлюза и вернётся без изменений
// при сверке — локально ничего не сохраняется, при ошибке шлюза откатывать нечего.
func (s *Service) InitializePayment(ctx context.Context, userUID, planID, discountCode string) (*InitializeResult, error) {
	const op = "payment.InitializePayment"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	quote, err := s.pricer.Quote(planID, discountCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := paymentprovider.InitializeTransactionRequest{
		Email:       user.Email,
		Amount:      quote.FinalAmount,
		Currency:    s.currency,
		CallbackURL: s.returnURL,
		Metadata: models.TransactionIntent{
			UserUID:        user.UID,
			PlanID:         quote.Plan.ID,
			DiscountCode:   quote.AppliedDiscountCode,
			OriginalAmount: quote.OriginalAmount,
			FinalAmount:    quote.FinalAmount,
		},
	}

	resp, err := s.gateway.InitializeTransaction(ctx, req)
	if err != nil {
		s.log.Error("gateway rejected initialization", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentInit)
	}

	paymentsInitialized.Inc()
	s.log.Info("payment initialized",
		slog.String("user_uid", user.UID),
		slog.String("plan", quote.Plan.ID),
		slog.String("reference", resp.Data.Reference),
		slog.Int64("amount", quote.FinalAmount))

	return &InitializeResult{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

// VerifyPayment запрашивает статус транзакции у шлюза и при успехе
// активирует подписку. Повторный вызов с тем же референсом возвращает
// уже созданную подписку.
func (s *Service) VerifyPayment(ctx context.Context, reference string) (*models.Subscription, error) {
	const op = "payment.VerifyPayment"

	resp, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		s.log.Error("gateway verification request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentVerification)
	}
	if resp.Data.Status != paymentprovider.TransactionStatusSuccess {
		s.log.Info("transaction is not successful",
			slog.String("reference", reference),
			slog.String("status", resp.Data.Status))
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentVerification)
	}

	sub, err := s.reconcile(ctx, resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ProcessWebhookEvent обрабатывает событие шлюза. Любое событие, кроме
// успешного списания, игнорируется без изменения состояния.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event *paymentprovider.WebhookEvent) error {
	const op = "payment.ProcessWebhookEvent"

	if event.Event != paymentprovider.EventChargeSuccess {
		s.log.Info("ignored webhook event", slog.String("event", event.Event))
		return nil
	}
	if event.Data.Status != paymentprovider.TransactionStatusSuccess {
		s.log.Info("ignored charge event with non-success status",
			slog.String("reference", event.Data.Reference),
			slog.String("status", event.Data.Status))
		return nil
	}

	if _, err := s.reconcile(ctx, event.Data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// reconcile превращает подтверждённую успешную транзакцию в активную подписку.
//
// Намерение из метаданных — единственный источник истины о покупке: план и
// сумма не пересчитываются, потому что сумма могла быть со скидкой. Вставка
// подписки идёт первой: уникальный референс в базе сериализует гонку
// verify/webhook, и только победитель публикует событие. Флаг подписки
// обновляют обе ветки — это идемпотентная запись, гарантирующая сходимость.
func (s *Service) reconcile(ctx context.Context, tx paymentprovider.TransactionData) (*models.Subscription, error) {
	const op = "payment.reconcile"

	intent := tx.Metadata
	if intent.UserUID == "" || intent.PlanID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidIntent)
	}
	plan, ok := s.catalog.Plan(intent.PlanID)
	if !ok {
		return nil, fmt.Errorf("%s: plan %q: %w", op, intent.PlanID, ErrInvalidIntent)
	}

	startDate := time.Now().UTC()
	var endDate time.Time
	if plan.Interval == catalog.IntervalYearly {
		endDate = period.AddYears(startDate, 1)
	} else {
		endDate = period.AddMonths(startDate, 1)
	}

	sub := models.Subscription{
		UID:              uuid.NewString(),
		UserUID:          intent.UserUID,
		Plan:             plan.ID,
		AmountPaid:       tx.Amount,
		GatewayReference: tx.Reference,
		DiscountCode:     intent.DiscountCode,
		Status:           models.SubscriptionStatusActive,
		StartDate:        startDate,
		EndDate:          endDate,
	}

	if _, err := s.subs.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			paymentsDuplicate.Inc()
			s.log.Info("transaction already reconciled", slog.String("reference", tx.Reference))
			existing, err := s.subs.GetSubscriptionByReference(ctx, tx.Reference)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			// Победитель мог упасть между вставкой и обновлением флага,
			// поэтому повторная сверка дожимает флаг до конечного состояния.
			if err := s.users.UpdateSubscribedFlag(ctx, intent.UserUID, true); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.UpdateSubscribedFlag(ctx, intent.UserUID, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	paymentsReconciled.Inc()
	s.log.Info("subscription activated",
		slog.String("user_uid", intent.UserUID),
		slog.String("plan", plan.ID),
		slog.String("reference", tx.Reference),
		slog.Time("end_date", endDate))

	if s.cache != nil {
		cacheKey := fmt.Sprintf("subscription:active:%s", intent.UserUID)
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	if s.events != nil {
		event := ActivationEvent{
			UserUID:   intent.UserUID,
			Plan:      plan.ID,
			Reference: tx.Reference,
			EndDate:   endDate,
		}
		if err := s.events.Publish("subscription.activated", event); err != nil {
			s.log.Warn("failed to publish activation event", sl.Err(err))
		}
	}

	return &sub, nil
}
