// Package sessions реализует набор тренировок клиента: поиск, слияние,
// удаление по дате и сортировку. Набор упорядочен по дате, и на одну дату
// приходится не больше одной тренировки.
package sessions

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
	"github.com/magabrotheeeer/coach-clients/internal/models"
)

const dateTimeLayout = "2006-01-02T15:04"

// Find возвращает тренировку на указанную дату.
// Тренировки с неразбираемой датой не совпадают ни с какой датой.
func Find(set []models.Session, date time.Time) (models.Session, bool) {
	for _, s := range set {
		if onDate(s, date) {
			return s, true
		}
	}
	return models.Session{}, false
}

// UpsertMany добавляет записи, чья дата ещё не занята ни в наборе, ни
// среди ранее добавленных записей пачки. Существующие записи не заменяются.
func UpsertMany(set []models.Session, records []models.Session) []models.Session {
	out := make([]models.Session, len(set), len(set)+len(records))
	copy(out, set)

	occupied := make(map[string]struct{}, len(out)+len(records))
	for _, s := range out {
		occupied[s.Date] = struct{}{}
	}
	for _, r := range records {
		if _, ok := occupied[r.Date]; ok {
			continue
		}
		occupied[r.Date] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RemoveByDate удаляет единственную тренировку на указанную дату.
func RemoveByDate(set []models.Session, date time.Time) []models.Session {
	out := make([]models.Session, 0, len(set))
	removed := false
	for _, s := range set {
		if !removed && onDate(s, date) {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortedByDateTime возвращает копию набора, устойчиво отсортированную по
// ключу "дата T время". Записи с неразбираемой датой идут в конце
// в исходном порядке, с неразбираемым временем сортируются по дате.
func SortedByDateTime(set []models.Session) []models.Session {
	type keyed struct {
		s   models.Session
		at  time.Time
		bad bool
	}
	items := make([]keyed, len(set))
	for i, s := range set {
		at, err := sortKey(s)
		items[i] = keyed{s: s, at: at, bad: err != nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].bad || items[j].bad {
			return !items[i].bad && items[j].bad
		}
		return items[i].at.Before(items[j].at)
	})

	out := make([]models.Session, len(items))
	for i, it := range items {
		out[i] = it.s
	}
	return out
}

// sortKey склеивает дату и время в один момент. Пустое или неразбираемое
// время означает начало дня, ошибкой считается только плохая дата.
func sortKey(s models.Session) (time.Time, error) {
	day, err := dates.Parse(s.Date)
	if err != nil {
		return time.Time{}, err
	}
	if s.Time == "" {
		return day, nil
	}
	at, err := time.Parse(dateTimeLayout, s.Date+"T"+s.Time)
	if err != nil {
		return day, nil
	}
	return at, nil
}

func onDate(s models.Session, date time.Time) bool {
	d, err := dates.Parse(s.Date)
	if err != nil {
		return false
	}
	return dates.IsSameDay(d, date)
}
