// Package validation собирает валидатор запросов с правилами предметной области.
package validation

import (
	"time"

	"github.com/go-playground/validator"
)

// TimeSlotLayout формат времени тренировки HH:MM.
const TimeSlotLayout = "15:04"

// New возвращает валидатор с зарегистрированным тегом timeslot.
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("timeslot", isTimeSlot); err != nil {
		panic(err)
	}
	return v
}

// IsTimeSlot сообщает, что s записано строго как HH:MM в пределах суток.
func IsTimeSlot(s string) bool {
	if len(s) != len(TimeSlotLayout) {
		return false
	}
	_, err := time.Parse(TimeSlotLayout, s)
	return err == nil
}

func isTimeSlot(fl validator.FieldLevel) bool {
	return IsTimeSlot(fl.Field().String())
}
