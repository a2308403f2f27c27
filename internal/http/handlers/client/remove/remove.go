// Package remove реализует HTTP-обработчик удаления клиента вместе с его тренировками.
package remove

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

// Handler обрабатывает запросы на удаление клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления клиента.
type Service interface {
	Remove(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить клиента
// @Tags Clients
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} response.Response "Количество удаленных записей"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	count, err := h.service.Remove(r.Context(), id)
	if errors.Is(err, services.ErrClientNotFound) {
		response.WriteError(w, r, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		log.Error("failed to remove client", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not remove client")
		return
	}

	log.Info("client removed", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": count,
	}))
}
