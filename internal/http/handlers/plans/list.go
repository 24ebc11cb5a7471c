// Package plans реализует HTTP-обработчик списка тарифных планов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-billing/internal/catalog"
	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
)

// Handler отдаёт каталог тарифных планов.
type Handler struct {
	log     *slog.Logger
	catalog *catalog.Catalog
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, c *catalog.Catalog) *Handler {
	return &Handler{
		log:     log,
		catalog: c,
	}
}

// ServeHTTP godoc
// @Summary Список тарифных планов
// @Description Возвращает каталог планов с базовыми ценами в минорных единицах валюты.
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response "Каталог планов"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": h.catalog.Plans(),
	}))
}
