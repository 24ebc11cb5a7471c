// Package paymentinit обрабатывает инициализацию платежа за подписку.
package paymentinit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	paymentservice "github.com/magabrotheeeer/subscription-billing/internal/services/payment"
	"github.com/magabrotheeeer/subscription-billing/internal/services/pricing"
	"github.com/magabrotheeeer/subscription-billing/internal/storage/repository"
)

// Request представляет запрос на инициализацию платежа.
type Request struct {
	PlanID       string `json:"plan_id" validate:"required"`
	DiscountCode string `json:"discount_code,omitempty"`
}

// Service определяет интерфейс платёжного сервиса.
type Service interface {
	InitializePayment(ctx context.Context, userUID, planID, discountCode string) (*paymentservice.InitializeResult, error)
}

// Handler обрабатывает запросы на инициализацию платежа.
type Handler struct {
	log            *slog.Logger
	paymentService Service
	validate       *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: ps,
		validate:       validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Инициализировать платеж
// @Description Рассчитывает стоимость плана и создаёт транзакцию в платёжном шлюзе.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "План и промокод"
// @Success 200 {object} response.Response "URL авторизации платежа и референс"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестный план"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /payment/initialize [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.init"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.paymentService.InitializePayment(r.Context(), userUID, req.PlanID, req.DiscountCode)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnknownPlan):
			log.Info("unknown plan", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
		case errors.Is(err, repository.ErrNotFound):
			log.Info("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to initialize payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment provider error"))
		}
		return
	}

	log.Info("payment initialized", slog.String("reference", result.Reference))
	render.JSON(w, r, response.OKWithData(result))
}
