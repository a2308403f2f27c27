// Package clock поставляет "сегодня" как календарную дату.
// Вся логика статусов получает дату явно, а не читает системное время.
package clock

import (
	"time"

	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
)

// Clock возвращает текущую календарную дату.
type Clock interface {
	Today() time.Time
	Now() time.Time
}

// System часы на системном времени в заданном часовом поясе.
type System struct {
	Location *time.Location
}

// NewSystem создаёт часы для часового пояса с именем tz.
// Пустое имя означает UTC.
func NewSystem(tz string) (System, error) {
	if tz == "" {
		return System{Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return System{}, err
	}
	return System{Location: loc}, nil
}

// Now возвращает текущий момент в часовом поясе часов.
func (s System) Now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// Today возвращает сегодняшний день в часовом поясе часов.
func (s System) Today() time.Time {
	return dates.Day(s.Now())
}

// Fixed всегда возвращает один и тот же момент. Используется в тестах.
type Fixed time.Time

// Now возвращает зафиксированный момент.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Today возвращает день зафиксированного момента.
func (f Fixed) Today() time.Time { return dates.Day(time.Time(f)) }
