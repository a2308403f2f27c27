package models

// Notification напоминание по клиенту, которое планировщик публикует в брокер,
// а отправитель превращает в письмо.
type Notification struct {
	ClientID   string  `json:"client_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Category   string  `json:"category"`
	Label      string  `json:"label"`
	ExpiryDate string  `json:"expiry_date"`
	DaysLeft   int     `json:"days_left"`
	BalanceDue float64 `json:"balance_due"`
	IssuedAt   string  `json:"issued_at"`
}
