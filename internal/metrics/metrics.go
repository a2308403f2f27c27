// Package metrics содержит метрики prometheus сервиса клиентов.
// Метрики регистрируются в реестре по умолчанию и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coach_clients"

var (
	// SessionsChanged считает добавленные и удалённые нажатием по календарю тренировки.
	SessionsChanged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_changed_total",
		Help:      "Sessions added or removed by calendar toggles.",
	}, []string{"action"})

	// ClientsByStatus количество клиентов в каждой категории статуса
	// на момент последнего подсчёта.
	ClientsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "clients_by_status",
		Help:      "Clients per derived status category.",
	}, []string{"category"})

	// NotificationsPublished считает опубликованные уведомления по ключу маршрутизации.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Follow-up notifications published to the broker.",
	}, []string{"routing_key", "result"})
)

// ObserveToggle фиксирует разницу в размере набора тренировок до и после нажатия.
func ObserveToggle(before, after int) {
	switch {
	case after > before:
		SessionsChanged.WithLabelValues("added").Add(float64(after - before))
	case after < before:
		SessionsChanged.WithLabelValues("removed").Add(float64(before - after))
	}
}

// SetStatusCounts выставляет значения ClientsByStatus. Категории, которых
// нет в counts, обнуляются.
func SetStatusCounts(categories []string, counts map[string]int) {
	for _, c := range categories {
		ClientsByStatus.WithLabelValues(c).Set(float64(counts[c]))
	}
}
