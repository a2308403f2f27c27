// Package toggle реализует нажатие по дате календаря клиента.
//
// Если на дату уже есть тренировка, она удаляется. Иначе добавляется одна
// тренировка или, при recurring=true, еженедельная серия до конца абонемента.
package toggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coach-clients/internal/http/response"
	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	"github.com/magabrotheeeer/coach-clients/internal/lib/validation"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

// Handler обрабатывает нажатия по календарю.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает переключение тренировки на дату.
type Service interface {
	ToggleSession(ctx context.Context, id, date string, recurring bool) ([]models.Session, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Переключить тренировку на дату
// @Description Удаляет тренировку на дату или добавляет одну либо еженедельную серию до окончания абонемента.
// @Tags Sessions
// @Accept  json
// @Produce  json
// @Param id path string true "ID клиента"
// @Param request body models.DummyToggle true "Дата и признак повторения"
// @Success 200 {object} response.Response "Отсортированный набор тренировок"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/sessions/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.toggle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyToggle
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		response.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	sessions, err := h.service.ToggleSession(r.Context(), id, req.Date, req.Recurring)
	switch {
	case errors.Is(err, dates.ErrMalformedDate):
		response.WriteError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	case errors.Is(err, services.ErrClientNotFound):
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	case err != nil:
		log.Error("failed to toggle session", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not toggle session")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sessions": sessions,
	}))
}
