// Package profile реализует HTTP-обработчик профиля подписки пользователя.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// Service определяет интерфейс проекции подписок.
type Service interface {
	GetActive(ctx context.Context, userUID string) (*models.SubscriptionSummary, error)
}

// Handler обрабатывает запросы профиля подписки.
type Handler struct {
	log                 *slog.Logger
	subscriptionService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ss Service) *Handler {
	return &Handler{
		log:                 log,
		subscriptionService: ss,
	}
}

// ServeHTTP godoc
// @Summary Профиль подписки
// @Description Возвращает действующую подписку пользователя или null, если её нет.
// @Tags User
// @Produce  json
// @Success 200 {object} response.Response "Сводка подписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/profile [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

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

	summary, err := h.subscriptionService.GetActive(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get active subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": summary,
	}))
}
