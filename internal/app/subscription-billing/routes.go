// Package subscriptionbilling собирает приложение и его маршруты.
package subscriptionbilling

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-billing/internal/catalog"
	"github.com/magabrotheeeer/subscription-billing/internal/config"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/payment/paymentinit"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/payment/paymentverify"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/plans"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/subscription-billing/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/subscription-billing/internal/services/payment"
	subservice "github.com/magabrotheeeer/subscription-billing/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, cat *catalog.Catalog,
	authService *authservice.AuthService, paymentService *paymentservice.Service,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/plans", plans.New(logger, cat).ServeHTTP)
		r.Get("/health", health.New(logger, cfg).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)
			r.Post("/payment/initialize", paymentinit.New(logger, paymentService).ServeHTTP)
			r.Get("/payment/verify/{reference}", paymentverify.New(logger, paymentService).ServeHTTP)
			r.Get("/user/profile", profile.New(logger, subscriptionService).ServeHTTP)
		})

		// Webhook endpoint (аутентификация подписью шлюза)
		r.Post("/payment/webhook", paymentwebhook.New(logger, paymentService, cfg.Gateway.SecretKey).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
