// Package services содержит планировщик напоминаний: он периодически
// пересчитывает статусы клиентов и публикует уведомления в брокер.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coach-clients/internal/billing"
	"github.com/magabrotheeeer/coach-clients/internal/clientstatus"
	"github.com/magabrotheeeer/coach-clients/internal/lib/clock"
	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	"github.com/magabrotheeeer/coach-clients/internal/metrics"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	"github.com/magabrotheeeer/coach-clients/internal/rabbitmq"
)

// ExpiredNoticeDays ограничивает напоминания об истёкшем абонементе:
// после этого числа дней с даты окончания клиент больше не попадает в рассылку.
const ExpiredNoticeDays = 7

// ClientRepository отдаёт всех клиентов для пересчёта статусов.
type ClientRepository interface {
	ListClients(ctx context.Context) ([]*models.Client, error)
}

// Publisher отправляет сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SchedulerService раз в interval публикует напоминания по клиентам,
// которым нужно внимание тренера.
type SchedulerService struct {
	repo      ClientRepository
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ClientRepository, publisher Publisher, clk clock.Clock,
	interval time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		interval:  interval,
		log:       log,
	}
}

// Run выполняет проход сразу и затем по тикеру, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context) {
	s.notifyClients(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.notifyClients(ctx)
		}
	}
}

// notifyClients возвращает количество успешно опубликованных уведомлений.
func (s *SchedulerService) notifyClients(ctx context.Context) int {
	const op = "services.scheduler.notifyClients"
	log := s.log.With(sl.Op(op))

	log.Info("starting status pass")
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		return 0
	}

	today := s.clock.Today()
	counts := make(map[string]int, 4)
	published := 0
	for _, c := range clients {
		status := clientstatus.Derive(*c, today)
		counts[string(status.Category)]++

		key, ok := routingKey(status.Category)
		if !ok {
			continue
		}
		daysLeft := dates.DaysUntil(c.ExpiryDate, today)
		if status.Category == clientstatus.Expired && daysLeft < -ExpiredNoticeDays {
			continue
		}
		msg := models.Notification{
			ClientID:   c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Category:   string(status.Category),
			Label:      status.Label,
			ExpiryDate: dates.Format(c.ExpiryDate),
			DaysLeft:   daysLeft,
			BalanceDue: billing.BalanceDue(*c),
			IssuedAt:   dates.Format(today),
		}
		if err := s.publisher.Publish(key, msg); err != nil {
			metrics.NotificationsPublished.WithLabelValues(key, "error").Inc()
			log.Error("failed to publish notification", slog.String("client_id", c.ID), sl.Err(err))
			continue
		}
		metrics.NotificationsPublished.WithLabelValues(key, "ok").Inc()
		published++
	}

	metrics.SetStatusCounts(clientstatus.CategoryNames(), counts)

	log.Info("status pass finished", slog.Int("clients", len(clients)), slog.Int("published", published))
	return published
}

func routingKey(c clientstatus.Category) (string, bool) {
	switch c {
	case clientstatus.ExpiringSoon:
		return rabbitmq.RoutingKeyExpiring, true
	case clientstatus.NeedsFollowUp:
		return rabbitmq.RoutingKeyFollowUp, true
	case clientstatus.Expired:
		return rabbitmq.RoutingKeyExpired, true
	default:
		return "", false
	}
}
