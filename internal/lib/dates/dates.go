// Package dates содержит календарную арифметику с точностью до дня.
// Все значения приводятся к полуночи UTC по их собственным полям год/месяц/день,
// поэтому сравнения не зависят от часового пояса и перехода на летнее время.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout формат календарной даты в API и хранилище.
const Layout = "2006-01-02"

// ErrMalformedDate возвращается для строк, которые нельзя разобрать как дату.
var ErrMalformedDate = errors.New("malformed date")

// Parse разбирает дату в формате YYYY-MM-DD.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return d, nil
}

// Format возвращает дату в формате YYYY-MM-DD.
func Format(d time.Time) string {
	return Day(d).Format(Layout)
}

// Day отбрасывает время суток, сохраняя календарные поля d.
func Day(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// IsSameDay сообщает, совпадают ли календарные дни.
func IsSameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// IsBefore сообщает, что день a строго раньше дня b.
func IsBefore(a, b time.Time) bool {
	return Day(a).Before(Day(b))
}

// IsAfter сообщает, что день a строго позже дня b.
func IsAfter(a, b time.Time) bool {
	return Day(a).After(Day(b))
}

// AddWeeks сдвигает день на 7*n календарных дней.
func AddWeeks(d time.Time, n int) time.Time {
	return Day(d).AddDate(0, 0, 7*n)
}

// DaysUntil возвращает количество дней от from до target,
// отрицательное, если target раньше from.
func DaysUntil(target, from time.Time) int {
	return int(Day(target).Sub(Day(from)).Hours() / 24)
}

// EnumerateMonth возвращает дни месяца, в который попадает anchor,
// и индекс дня недели первого числа (воскресенье = 0).
func EnumerateMonth(anchor time.Time) ([]time.Time, int) {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := make([]time.Time, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, int(first.Weekday())
}
