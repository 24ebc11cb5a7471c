// Package paymentverify обрабатывает клиентскую верификацию платежа по референсу.
package paymentverify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	paymentservice "github.com/magabrotheeeer/subscription-billing/internal/services/payment"
)

// Service определяет интерфейс сверки платежа.
type Service interface {
	VerifyPayment(ctx context.Context, reference string) (*models.Subscription, error)
}

// Handler обрабатывает запросы верификации платежа.
type Handler struct {
	log            *slog.Logger
	paymentService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: ps,
	}
}

// ServeHTTP godoc
// @Summary Верифицировать платеж
// @Description Запрашивает статус транзакции у шлюза и активирует подписку при успехе.
// @Description Повторная верификация того же референса возвращает уже созданную подписку.
// @Tags Payments
// @Produce  json
// @Param reference path string true "Референс транзакции"
// @Success 200 {object} response.Response "Активированная подписка"
// @Failure 400 {object} response.ErrorResponse "Пустой референс или платёж не подтверждён шлюзом"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payment/verify/{reference} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	reference := chi.URLParam(r, "reference")
	if reference == "" {
		log.Error("missing reference in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing reference"))
		return
	}

	sub, err := h.paymentService.VerifyPayment(r.Context(), reference)
	if err != nil {
		if errors.Is(err, paymentservice.ErrPaymentVerification) {
			log.Info("payment not confirmed", slog.String("reference", reference))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
			return
		}
		log.Error("failed to verify payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("payment verified", slog.String("reference", reference))
	render.JSON(w, r, response.OKWithData(models.SubscriptionSummary{
		Plan:    sub.Plan,
		Status:  sub.Status,
		EndDate: sub.EndDate,
	}))
}
