// Package read реализует HTTP-обработчик получения клиента по ID.
package read

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
	"github.com/magabrotheeeer/coach-clients/internal/models"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

// Handler обрабатывает запросы на получение клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения клиента.
type Service interface {
	Read(ctx context.Context, id string) (*models.Client, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить клиента
// @Description Возвращает клиента вместе с его тренировками.
// @Tags Clients
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} response.Response "Клиент"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	res, err := h.service.Read(r.Context(), id)
	if errors.Is(err, services.ErrClientNotFound) {
		log.Info("client not found", slog.String("id", id))
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		log.Error("failed to read client", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not read client")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": res,
	}))
}
