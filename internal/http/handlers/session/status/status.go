// Package status реализует смену статуса отдельной тренировки.
package status

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
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	"github.com/magabrotheeeer/coach-clients/internal/lib/validation"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	SetSessionStatus(ctx context.Context, id, sessionID string, status models.SessionStatus) (*models.Session, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить статус тренировки
// @Tags Sessions
// @Accept  json
// @Produce  json
// @Param id path string true "ID клиента"
// @Param sessionID path string true "ID тренировки"
// @Param request body models.DummySessionStatus true "Новый статус"
// @Success 200 {object} response.Response "Обновленная тренировка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Клиент или тренировка не найдены"
// @Failure 422 {object} response.ErrorResponse "Недопустимый статус"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/sessions/{sessionID}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySessionStatus
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

	id, sessionID := chi.URLParam(r, "id"), chi.URLParam(r, "sessionID")
	session, err := h.service.SetSessionStatus(r.Context(), id, sessionID, req.Status)
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	case errors.Is(err, services.ErrSessionNotFound):
		response.WriteError(w, r, http.StatusNotFound, "session not found")
		return
	case errors.Is(err, services.ErrValidation):
		response.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		log.Error("failed to set session status", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not update session")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"session": session,
	}))
}
