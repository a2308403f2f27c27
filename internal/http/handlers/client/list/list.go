// Package list реализует HTTP-обработчик списка клиентов со статусами.
//
// Параметр status фильтрует список по категории (expired, expiring_soon,
// needs_follow_up, active). Параметр due=true оставляет только должников.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-clients/internal/clientstatus"
	"github.com/magabrotheeeer/coach-clients/internal/http/response"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

// Handler обрабатывает запросы на получение списка клиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка клиентов.
type Service interface {
	List(ctx context.Context) ([]services.ClientOverview, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Description Возвращает клиентов со статусом и финансовой сводкой на сегодня.
// @Tags Clients
// @Produce  json
// @Param status query string false "Категория статуса" Enums(expired, expiring_soon, needs_follow_up, active)
// @Param due query bool false "Только клиенты с задолженностью"
// @Success 200 {object} response.Response "Список клиентов"
// @Failure 400 {object} response.ErrorResponse "Неизвестная категория"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := r.URL.Query().Get("status")
	if status != "" && !slices.Contains(clientstatus.CategoryNames(), status) {
		response.WriteError(w, r, http.StatusBadRequest, "unknown status category")
		return
	}
	dueOnly := r.URL.Query().Get("due") == "true"

	all, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "could not list clients")
		return
	}

	clients := make([]services.ClientOverview, 0, len(all))
	for _, c := range all {
		if status != "" && string(c.Status.Category) != status {
			continue
		}
		if dueOnly && !c.Status.IsDue {
			continue
		}
		clients = append(clients, c)
	}

	log.Info("clients listed", slog.Int("count", len(clients)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"clients": clients,
	}))
}
