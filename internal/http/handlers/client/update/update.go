// Package update реализует HTTP-обработчик изменения клиента.
package update

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
	Update(ctx context.Context, id string, req models.DummyClient) (*models.Client, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить клиента
// @Description Заменяет данные клиента. ID, дата создания и тренировки сохраняются.
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param id path string true "ID клиента"
// @Param request body models.DummyClient true "Новые данные клиента"
// @Success 200 {object} response.Response "Обновленный клиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyClient
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
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
	client, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	case errors.Is(err, services.ErrValidation):
		log.Info("update rejected", sl.Err(err))
		response.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		log.Error("failed to update client", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not update client")
		return
	}

	log.Info("client updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}
