// Package main Coach Clients API
//
// @title           Coach Clients API
// @version         1.0
// @description     API для ведения клиентов персонального тренера: абонементы, календарь тренировок, статусы и счета

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/coach-clients/internal/app/coachclients"
	"github.com/magabrotheeeer/coach-clients/internal/config"
	"github.com/magabrotheeeer/coach-clients/internal/lib/logger"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env, os.Stdout)

	log.Info("starting coach-clients", slog.String("env", cfg.Env))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := coachclients.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("coach-clients stopped gracefully")
}
