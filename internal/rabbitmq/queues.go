package rabbitmq

// NotificationsExchange direct-обменник для напоминаний по клиентам.
const NotificationsExchange = "notifications"

// Ключи маршрутизации уведомлений.
const (
	RoutingKeyExpiring = "expiring"
	RoutingKeyFollowUp = "followup"
	RoutingKeyExpired  = "expired"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые слушает отправитель писем.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.expiring", RoutingKey: RoutingKeyExpiring},
		{QueueName: "notifications.followup", RoutingKey: RoutingKeyFollowUp},
		{QueueName: "notifications.expired", RoutingKey: RoutingKeyExpired},
	}
}
