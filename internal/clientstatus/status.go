// Package clientstatus вычисляет сводный статус клиента по датам абонемента
// и истории тренировок. Правила проверяются строго по порядку,
// побеждает первое сработавшее.
package clientstatus

import (
	"time"

	"github.com/magabrotheeeer/coach-clients/internal/billing"
	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
	"github.com/magabrotheeeer/coach-clients/internal/models"
)

// ExpiringWindowDays за сколько дней до окончания абонемент считается истекающим.
const ExpiringWindowDays = 7

// Category одна из четырёх взаимоисключающих категорий клиента.
type Category string

const (
	Expired       Category = "expired"
	ExpiringSoon  Category = "expiring_soon"
	NeedsFollowUp Category = "needs_follow_up"
	Active        Category = "active"
)

// Categories возвращает все категории в порядке приоритета.
func Categories() []Category {
	return []Category{Expired, ExpiringSoon, NeedsFollowUp, Active}
}

// CategoryNames возвращает строковые значения категорий, например для меток метрик.
func CategoryNames() []string {
	all := Categories()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = string(c)
	}
	return out
}

// Label возвращает подпись категории для отображения.
func (c Category) Label() string {
	switch c {
	case Expired:
		return "Expired"
	case ExpiringSoon:
		return "Expiring Soon"
	case NeedsFollowUp:
		return "Needs Follow-up"
	default:
		return "Active"
	}
}

// Tone возвращает категорию оформления для слоя отображения.
func (c Category) Tone() string {
	switch c {
	case Expired:
		return "danger"
	case ExpiringSoon:
		return "warning"
	case NeedsFollowUp:
		return "info"
	default:
		return "success"
	}
}

// Result результат вычисления статуса.
type Result struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Tone     string   `json:"tone"`
	IsDue    bool     `json:"is_due"`
}

type rule struct {
	category Category
	match    func(c models.Client, today time.Time) bool
}

// cascade задаёт приоритет: истёкший абонемент важнее пропусков,
// истекающий — важнее отсутствия плана.
var cascade = []rule{
	{category: Expired, match: isExpired},
	{category: ExpiringSoon, match: expiresWithinWindow},
	{category: NeedsFollowUp, match: needsFollowUp},
}

// Derive вычисляет статус клиента на дату today.
func Derive(c models.Client, today time.Time) Result {
	category := Active
	for _, r := range cascade {
		if r.match(c, today) {
			category = r.category
			break
		}
	}
	return Result{
		Category: category,
		Label:    category.Label(),
		Tone:     category.Tone(),
		IsDue:    billing.BalanceDue(c) > 0,
	}
}

func isExpired(c models.Client, today time.Time) bool {
	return dates.IsBefore(c.ExpiryDate, today)
}

func expiresWithinWindow(c models.Client, today time.Time) bool {
	return dates.DaysUntil(c.ExpiryDate, today) <= ExpiringWindowDays
}

func needsFollowUp(c models.Client, today time.Time) bool {
	upcoming := false
	for _, s := range c.Sessions {
		if s.Status == models.SessionMissed {
			return true
		}
		if isUpcoming(s, today) {
			upcoming = true
		}
	}
	return !upcoming
}

// isUpcoming: тренировка сегодня или позже, не отменена и не проведена.
// Тренировка с неразбираемой датой предстоящей не считается.
func isUpcoming(s models.Session, today time.Time) bool {
	d, err := dates.Parse(s.Date)
	if err != nil {
		return false
	}
	if dates.IsBefore(d, today) {
		return false
	}
	return s.Status != models.SessionCancelled && !s.IsCompleted()
}
