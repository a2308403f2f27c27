// Package models содержит доменные структуры клиента персонального тренера,
// его тренировок и производных представлений (обзор, счёт, календарь).
package models

// SessionStatus описывает состояние отдельной тренировки.
type SessionStatus string

const (
	// SessionScheduled тренировка запланирована.
	SessionScheduled SessionStatus = "scheduled"
	// SessionCompleted тренировка проведена.
	SessionCompleted SessionStatus = "completed"
	// SessionMissed клиент не пришёл.
	SessionMissed SessionStatus = "missed"
	// SessionCancelled тренировка отменена.
	SessionCancelled SessionStatus = "cancelled"
)

// Valid сообщает, является ли статус одним из известных значений.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionMissed, SessionCancelled:
		return true
	}
	return false
}

// Session одна тренировка клиента. Дата хранится в ISO-формате YYYY-MM-DD,
// время — строкой HH:MM. На одну дату у клиента не больше одной тренировки.
//
// Completed устаревшее булево представление завершённости, которое
// встречается в старых записях. Читать его напрямую не нужно, используйте IsCompleted.
type Session struct {
	ID        string        `json:"id"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Status    SessionStatus `json:"status"`
	Completed bool          `json:"completed,omitempty"`
}

// IsCompleted единственный предикат "тренировка проведена".
func (s Session) IsCompleted() bool {
	return s.Status == SessionCompleted || s.Completed
}
