// Package health отвечает на проверку готовности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-clients/internal/http/response"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
)

// Handler проверяет доступность хранилища.
type Handler struct {
	log   *slog.Logger
	ready func() error
}

// New создает Handler. ready возвращает ошибку, если хранилище недоступно.
func New(log *slog.Logger, ready func() error) *Handler {
	return &Handler{
		log:   log,
		ready: ready,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	if err := h.ready(); err != nil {
		h.log.Error("storage is not ready", slog.String("op", op), sl.Err(err))
		response.WriteError(w, r, http.StatusServiceUnavailable, "storage is not ready")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}
