package coachclients

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация сгенерированной swagger-документации.
	_ "github.com/magabrotheeeer/coach-clients/docs"
	"github.com/magabrotheeeer/coach-clients/internal/config"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/client/create"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/client/list"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/client/read"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/client/remove"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/client/update"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/health"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/invoice"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/session/calendar"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/session/status"
	"github.com/magabrotheeeer/coach-clients/internal/http/handlers/session/toggle"
	"github.com/magabrotheeeer/coach-clients/internal/http/middlewarectx"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limits config.RateLimit,
	clientService *services.ClientService, ready func() error) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger, ready).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RPS, limits.Burst))

			r.Post("/clients", create.New(logger, clientService).ServeHTTP)
			r.Get("/clients", list.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}", read.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}", update.New(logger, clientService).ServeHTTP)
			r.Delete("/clients/{id}", remove.New(logger, clientService).ServeHTTP)

			r.Post("/clients/{id}/sessions/toggle", toggle.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}/sessions/{sessionID}/status", status.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}/calendar", calendar.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}/invoice", invoice.New(logger, clientService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
