package subscriptionbilling

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-billing/internal/cache"
	"github.com/magabrotheeeer/subscription-billing/internal/catalog"
	"github.com/magabrotheeeer/subscription-billing/internal/config"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/migrations"
	"github.com/magabrotheeeer/subscription-billing/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/subscription-billing/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/subscription-billing/internal/services/payment"
	pricingservice "github.com/magabrotheeeer/subscription-billing/internal/services/pricing"
	subservice "github.com/magabrotheeeer/subscription-billing/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-billing/internal/storage/repository"
)

// App — собранное приложение с HTTP-сервером и его зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	events *rabbitmq.Publisher
}

// New собирает приложение: хранилище, миграции, кеш, брокер, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	migrationsPath := cfg.MigrationsPath
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err = migrations.Run(db.DB, migrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер событий не критичен для платёжного цикла: без него
	// активации просто не публикуются.
	var events *rabbitmq.Publisher
	if cfg.RabbitMQ.URL != "" {
		events, err = rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.EventQueue)
		if err != nil {
			logger.Warn("failed to connect to rabbitmq, events disabled", sl.Err(err))
			events = nil
		}
	}

	cat := catalog.Default()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gatewayClient := paymentprovider.NewClient(cfg.Gateway.SecretKey, cfg.Gateway.APIURL, cfg.Gateway.RequestTimeout)

	authService := authservice.NewAuthService(db, jwtMaker)
	pricer := pricingservice.New(cat)
	var eventPublisher paymentservice.EventPublisher
	if events != nil {
		eventPublisher = events
	}
	paymentSvc := paymentservice.New(db, db, gatewayClient, pricer, cat,
		eventPublisher, cacheRedis, cfg.Gateway.Currency, cfg.Gateway.CallbackURL, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, cat, authService, paymentSvc, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		events: events,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.events != nil {
			_ = a.events.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
