package models

import "time"

// PaymentPlan описывает регулярную оплату клиента. Используется только при
// формировании счёта, на расписание не влияет.
type PaymentPlan struct {
	Enabled   bool    `json:"enabled"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

// Client представляет собой основную модель клиента,
// используемую в бизнес-логике и хранилище.
// StartDate и ExpiryDate — календарные даты (UTC, полночь) периода абонемента.
type Client struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	StartDate       time.Time    `json:"start_date"`
	ExpiryDate      time.Time    `json:"expiry_date"`
	DefaultTimeSlot string       `json:"default_time_slot"`
	TotalFee        float64      `json:"total_fee"`
	PaidAmount      float64      `json:"paid_amount"`
	Notes           string       `json:"notes,omitempty"`
	Sessions        []Session    `json:"sessions"`
	CreatedAt       time.Time    `json:"created_at"`
	PaymentPlan     *PaymentPlan `json:"payment_plan,omitempty"`
}

// DummyClient используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Client.
// Даты приходят строками в формате YYYY-MM-DD и парсятся в сервисе.
type DummyClient struct {
	Name            string       `json:"name" validate:"required"`
	Email           string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string       `json:"phone,omitempty"`
	StartDate       string       `json:"start_date" validate:"required"`
	ExpiryDate      string       `json:"expiry_date" validate:"required"`
	DefaultTimeSlot string       `json:"default_time_slot" validate:"omitempty,timeslot"`
	TotalFee        float64      `json:"total_fee" validate:"gte=0"`
	PaidAmount      float64      `json:"paid_amount" validate:"gte=0"`
	Notes           string       `json:"notes,omitempty"`
	PaymentPlan     *PaymentPlan `json:"payment_plan,omitempty"`
}

// DummyToggle тело запроса на нажатие по дате календаря.
type DummyToggle struct {
	Date      string `json:"date" validate:"required"`
	Recurring bool   `json:"recurring"`
}

// DummySessionStatus тело запроса на смену статуса тренировки.
type DummySessionStatus struct {
	Status SessionStatus `json:"status" validate:"required,oneof=scheduled completed missed cancelled"`
}
