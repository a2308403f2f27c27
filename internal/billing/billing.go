// Package billing считает финансовые показатели клиента и использование
// абонемента. Одни и те же функции используются в списке клиентов и в счёте.
package billing

import "github.com/magabrotheeeer/coach-clients/internal/models"

// Summary набор производных показателей клиента.
type Summary struct {
	BalanceDue       float64 `json:"balance_due"`
	CompletedCount   int     `json:"completed_count"`
	TotalSessions    int     `json:"total_sessions"`
	RatePerSession   float64 `json:"rate_per_session"`
	ValueRendered    float64 `json:"value_rendered"`
	ProgressFraction float64 `json:"progress_fraction"`
}

// BalanceDue остаток к оплате; отрицателен при переплате.
func BalanceDue(c models.Client) float64 {
	return c.TotalFee - c.PaidAmount
}

// CompletedCount считает проведённые тренировки, включая отмеченные
// устаревшим флагом.
func CompletedCount(set []models.Session) int {
	n := 0
	for _, s := range set {
		if s.IsCompleted() {
			n++
		}
	}
	return n
}

// TotalSessions количество тренировок в наборе.
func TotalSessions(set []models.Session) int {
	return len(set)
}

// RatePerSession стоимость одной тренировки; 0, если тренировок нет.
func RatePerSession(c models.Client) float64 {
	total := TotalSessions(c.Sessions)
	if total == 0 {
		return 0
	}
	return c.TotalFee / float64(total)
}

// ValueRendered стоимость уже проведённых тренировок.
func ValueRendered(c models.Client) float64 {
	return float64(CompletedCount(c.Sessions)) * RatePerSession(c)
}

// ProgressFraction доля проведённых тренировок от 0 до 1.
func ProgressFraction(c models.Client) float64 {
	total := TotalSessions(c.Sessions)
	if total == 0 {
		return 0
	}
	return float64(CompletedCount(c.Sessions)) / float64(total)
}

// Summarize собирает все показатели клиента.
func Summarize(c models.Client) Summary {
	return Summary{
		BalanceDue:       BalanceDue(c),
		CompletedCount:   CompletedCount(c.Sessions),
		TotalSessions:    TotalSessions(c.Sessions),
		RatePerSession:   RatePerSession(c),
		ValueRendered:    ValueRendered(c),
		ProgressFraction: ProgressFraction(c),
	}
}
