// Package calendar реализует выдачу месячного календаря клиента.
package calendar

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

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Calendar(ctx context.Context, id, month string) (*services.CalendarMonth, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Календарь клиента на месяц
// @Description Дни месяца с тренировками, отметкой периода абонемента и сегодняшнего дня.
// @Tags Sessions
// @Produce  json
// @Param id path string true "ID клиента"
// @Param month query string false "Месяц в формате YYYY-MM, по умолчанию текущий"
// @Success 200 {object} response.Response "Календарь"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 422 {object} response.ErrorResponse "Некорректный месяц"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/calendar [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.calendar"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	month, err := h.service.Calendar(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	case errors.Is(err, services.ErrValidation):
		response.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		log.Error("failed to build calendar", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not build calendar")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(month))
}
