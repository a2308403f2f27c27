// Package schedule превращает нажатия по календарю в набор тренировок клиента,
// в том числе разворачивает еженедельное повторение до даты окончания абонемента.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	"github.com/magabrotheeeer/coach-clients/internal/sessions"
)

// IDGenerator выдаёт уникальные идентификаторы новых записей.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator выдаёт UUID v4.
type UUIDGenerator struct{}

// NewID возвращает новый UUID в строковом виде.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Toggle обрабатывает нажатие по дате tapped.
//
// Если на эту дату уже есть тренировка, удаляется ровно она, даже в режиме
// повторения. Иначе создаётся одна тренировка, а при recurring — серия
// с шагом в неделю от tapped до ExpiryDate включительно. Даты, занятые до
// разворачивания, пропускаются без сбоя шага. Возвращаемый набор не отсортирован,
// перед сохранением его нужно пропустить через Finalize.
func Toggle(client models.Client, tapped time.Time, recurring bool, ids IDGenerator) []models.Session {
	if _, ok := sessions.Find(client.Sessions, tapped); ok {
		return sessions.RemoveByDate(client.Sessions, tapped)
	}

	if !recurring {
		return sessions.UpsertMany(client.Sessions, []models.Session{newSession(client, tapped, ids)})
	}

	var batch []models.Session
	for candidate := dates.Day(tapped); !dates.IsAfter(candidate, client.ExpiryDate); candidate = dates.AddWeeks(candidate, 1) {
		if _, ok := sessions.Find(client.Sessions, candidate); ok {
			continue
		}
		batch = append(batch, newSession(client, candidate, ids))
	}
	return sessions.UpsertMany(client.Sessions, batch)
}

// Finalize приводит набор к виду, в котором он сохраняется в клиенте.
func Finalize(set []models.Session) []models.Session {
	return sessions.SortedByDateTime(set)
}

func newSession(client models.Client, date time.Time, ids IDGenerator) models.Session {
	return models.Session{
		ID:     ids.NewID(),
		Date:   dates.Format(date),
		Time:   client.DefaultTimeSlot,
		Status: models.SessionScheduled,
	}
}
