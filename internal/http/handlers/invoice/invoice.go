// Package invoice реализует выдачу счёта клиента: сводка по оплате и
// проведённым тренировкам на сегодняшнюю дату.
package invoice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-clients/internal/http/response"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

// Handler обрабатывает запросы на формирование счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает формирование счёта.
type Service interface {
	Invoice(ctx context.Context, id string) (*services.Invoice, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Счёт клиента
// @Tags Invoices
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} response.Response "Счёт"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/invoice [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	inv, err := h.service.Invoice(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, services.ErrClientNotFound) {
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		log.Error("failed to build invoice", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not build invoice")
		return
	}

	log.Info("invoice issued", slog.String("number", inv.Number))
	render.JSON(w, r, response.StatusOKWithData(inv))
}
