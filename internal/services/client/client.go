// Package services содержит бизнес-логику управления клиентами: сохранение
// с кешированием, календарь тренировок, статусы и счета.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coach-clients/internal/billing"
	"github.com/magabrotheeeer/coach-clients/internal/clientstatus"
	"github.com/magabrotheeeer/coach-clients/internal/lib/clock"
	"github.com/magabrotheeeer/coach-clients/internal/lib/dates"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	"github.com/magabrotheeeer/coach-clients/internal/lib/validation"
	"github.com/magabrotheeeer/coach-clients/internal/metrics"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	"github.com/magabrotheeeer/coach-clients/internal/schedule"
	"github.com/magabrotheeeer/coach-clients/internal/storage"
)

// DefaultTimeSlot подставляется, если время по умолчанию не задано.
const DefaultTimeSlot = "09:00"

var (
	// ErrValidation входные данные отклонены до построения записи.
	ErrValidation = errors.New("validation failed")
	// ErrClientNotFound клиента с таким ID нет.
	ErrClientNotFound = errors.New("client not found")
	// ErrSessionNotFound у клиента нет тренировки с таким ID.
	ErrSessionNotFound = errors.New("session not found")
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	// SaveClient создаёт или полностью заменяет клиента.
	SaveClient(ctx context.Context, c models.Client) error
	// ReadClient возвращает клиента по ID.
	ReadClient(ctx context.Context, id string) (*models.Client, error)
	// ListClients возвращает всех клиентов.
	ListClients(ctx context.Context) ([]*models.Client, error)
	// RemoveClient удаляет клиента и возвращает количество удалённых записей.
	RemoveClient(ctx context.Context, id string) (int, error)
	// UpdateClient атомарно читает клиента, применяет mutate и сохраняет результат.
	UpdateClient(ctx context.Context, id string, mutate func(*models.Client) error) (*models.Client, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// ClientOverview строка списка клиентов.
type ClientOverview struct {
	Client  models.Client       `json:"client"`
	Status  clientstatus.Result `json:"status"`
	Summary billing.Summary     `json:"summary"`
}

// Invoice данные для отображения счёта.
type Invoice struct {
	Number      string              `json:"number"`
	IssuedAt    string              `json:"issued_at"`
	Client      models.Client       `json:"client"`
	Sessions    []models.Session    `json:"sessions"`
	Summary     billing.Summary     `json:"summary"`
	Status      clientstatus.Result `json:"status"`
	PaymentPlan *models.PaymentPlan `json:"payment_plan,omitempty"`
}

// CalendarDay ячейка календаря.
type CalendarDay struct {
	Date     string          `json:"date"`
	Session  *models.Session `json:"session,omitempty"`
	InPeriod bool            `json:"in_period"`
	IsToday  bool            `json:"is_today"`
}

// CalendarMonth месяц календаря клиента. FirstWeekday — индекс дня
// недели первого числа (воскресенье = 0) для отступа в сетке.
type CalendarMonth struct {
	Month        string        `json:"month"`
	FirstWeekday int           `json:"first_weekday"`
	Days         []CalendarDay `json:"days"`
}

// ClientService реализует бизнес-логику работы с клиентами, включая кеширование.
type ClientService struct {
	repo     ClientRepository
	cache    Cache
	ids      schedule.IDGenerator
	clock    clock.Clock
	validate *validator.Validate
	ttl      time.Duration
	log      *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, ids schedule.IDGenerator, clk clock.Clock,
	ttl time.Duration, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		cache:    cache,
		ids:      ids,
		clock:    clk,
		validate: validation.New(),
		ttl:      ttl,
		log:      log,
	}
}

func clientKey(id string) string {
	return "client:" + id
}

// Create проверяет данные, создает клиента с пустым набором тренировок и возвращает его ID.
func (s *ClientService) Create(ctx context.Context, req models.DummyClient) (string, error) {
	const op = "services.client.Create"

	client, err := s.build(req)
	if err != nil {
		return "", err
	}
	client.ID = s.ids.NewID()
	client.CreatedAt = s.clock.Now()
	client.Sessions = []models.Session{}

	if err := s.repo.SaveClient(ctx, client); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new client", sl.Op(op), slog.String("id", client.ID))

	s.remember(ctx, client)
	return client.ID, nil
}

// Update заменяет поля клиента, сохраняя ID, дату создания и тренировки.
func (s *ClientService) Update(ctx context.Context, id string, req models.DummyClient) (*models.Client, error) {
	const op = "services.client.Update"

	fields, err := s.build(req)
	if err != nil {
		return nil, err
	}

	client, err := s.repo.UpdateClient(ctx, id, func(c *models.Client) error {
		assignFields(c, fields)
		return nil
	})
	if err != nil {
		return nil, writeError(op, err)
	}
	s.log.Info("updated client", sl.Op(op), slog.String("id", id))

	s.forget(ctx, id)
	return client, nil
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *ClientService) Read(ctx context.Context, id string) (*models.Client, error) {
	const op = "services.client.Read"

	var cached models.Client
	found, err := s.cache.Get(ctx, clientKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", sl.Op(op), slog.String("id", id), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	client, err := s.repo.ReadClient(ctx, id)
	if errors.Is(err, storage.ErrClientNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.remember(ctx, *client)
	return client, nil
}

// Remove удаляет клиента по ID. Кеш инвалидируется после удаления строки.
func (s *ClientService) Remove(ctx context.Context, id string) (int, error) {
	const op = "services.client.Remove"

	count, err := s.repo.RemoveClient(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.forget(ctx, id)
	if count == 0 {
		return 0, ErrClientNotFound
	}
	s.log.Info("removed client", sl.Op(op), slog.String("id", id))
	return count, nil
}

// List возвращает всех клиентов с их статусом и финансовой сводкой на сегодня.
func (s *ClientService) List(ctx context.Context) ([]ClientOverview, error) {
	const op = "services.client.List"

	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	today := s.clock.Today()
	counts := make(map[string]int, 4)
	out := make([]ClientOverview, 0, len(clients))
	for _, c := range clients {
		status := clientstatus.Derive(*c, today)
		counts[string(status.Category)]++
		out = append(out, ClientOverview{
			Client:  *c,
			Status:  status,
			Summary: billing.Summarize(*c),
		})
	}
	metrics.SetStatusCounts(clientstatus.CategoryNames(), counts)
	return out, nil
}

// ToggleSession обрабатывает нажатие по дате календаря клиента и сохраняет
// отсортированный набор тренировок.
func (s *ClientService) ToggleSession(ctx context.Context, id, date string, recurring bool) ([]models.Session, error) {
	const op = "services.client.ToggleSession"

	tapped, err := dates.Parse(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var before int
	client, err := s.repo.UpdateClient(ctx, id, func(c *models.Client) error {
		before = len(c.Sessions)
		c.Sessions = schedule.Finalize(schedule.Toggle(*c, tapped, recurring, s.ids))
		return nil
	})
	if err != nil {
		return nil, writeError(op, err)
	}
	metrics.ObserveToggle(before, len(client.Sessions))
	s.log.Info("toggled session", sl.Op(op),
		slog.String("id", id),
		slog.String("date", date),
		slog.Bool("recurring", recurring),
		slog.Int("sessions", len(client.Sessions)))

	s.forget(ctx, id)
	return client.Sessions, nil
}

// SetSessionStatus меняет статус тренировки. Устаревший флаг Completed
// синхронизируется со статусом.
func (s *ClientService) SetSessionStatus(ctx context.Context, id, sessionID string, status models.SessionStatus) (*models.Session, error) {
	const op = "services.client.SetSessionStatus"

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown session status %q", ErrValidation, status)
	}

	var updated models.Session
	_, err := s.repo.UpdateClient(ctx, id, func(c *models.Client) error {
		for i := range c.Sessions {
			if c.Sessions[i].ID != sessionID {
				continue
			}
			c.Sessions[i].Status = status
			c.Sessions[i].Completed = status == models.SessionCompleted
			updated = c.Sessions[i]
			return nil
		}
		return ErrSessionNotFound
	})
	if err != nil {
		return nil, writeError(op, err)
	}
	s.log.Info("changed session status", sl.Op(op),
		slog.String("id", id), slog.String("session_id", sessionID), slog.String("status", string(status)))

	s.forget(ctx, id)
	return &updated, nil
}

// Calendar возвращает месяц month (YYYY-MM) календаря клиента.
// Пустой month означает текущий месяц.
func (s *ClientService) Calendar(ctx context.Context, id, month string) (*CalendarMonth, error) {
	today := s.clock.Today()
	anchor := today
	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
		}
		anchor = parsed
	}

	client, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	days, firstWeekday := dates.EnumerateMonth(anchor)
	out := &CalendarMonth{
		Month:        anchor.Format("2006-01"),
		FirstWeekday: firstWeekday,
		Days:         make([]CalendarDay, 0, len(days)),
	}
	for _, d := range days {
		cell := CalendarDay{
			Date:     dates.Format(d),
			InPeriod: !dates.IsBefore(d, client.StartDate) && !dates.IsAfter(d, client.ExpiryDate),
			IsToday:  dates.IsSameDay(d, today),
		}
		for i := range client.Sessions {
			if client.Sessions[i].Date == cell.Date {
				session := client.Sessions[i]
				cell.Session = &session
				break
			}
		}
		out.Days = append(out.Days, cell)
	}
	return out, nil
}

// Invoice собирает счёт клиента на сегодняшнюю дату.
func (s *ClientService) Invoice(ctx context.Context, id string) (*Invoice, error) {
	client, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()

	return &Invoice{
		Number:      invoiceNumber(client.ID, today),
		IssuedAt:    dates.Format(today),
		Client:      *client,
		Sessions:    client.Sessions,
		Summary:     billing.Summarize(*client),
		Status:      clientstatus.Derive(*client, today),
		PaymentPlan: client.PaymentPlan,
	}, nil
}

// build проверяет запрос и собирает из него поля клиента.
// Ничего не создаётся, пока проверка не пройдена.
func (s *ClientService) build(req models.DummyClient) (models.Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Client{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Client{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	start, err := dates.Parse(req.StartDate)
	if err != nil {
		return models.Client{}, fmt.Errorf("%w: start_date: %w", ErrValidation, err)
	}
	expiry, err := dates.Parse(req.ExpiryDate)
	if err != nil {
		return models.Client{}, fmt.Errorf("%w: expiry_date: %w", ErrValidation, err)
	}
	if dates.IsBefore(expiry, start) {
		return models.Client{}, fmt.Errorf("%w: expiry_date must not be earlier than start_date", ErrValidation)
	}
	slot := req.DefaultTimeSlot
	if slot == "" {
		slot = DefaultTimeSlot
	}

	return models.Client{
		Name:            name,
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		StartDate:       start,
		ExpiryDate:      expiry,
		DefaultTimeSlot: slot,
		TotalFee:        req.TotalFee,
		PaidAmount:      req.PaidAmount,
		Notes:           req.Notes,
		PaymentPlan:     req.PaymentPlan,
	}, nil
}

// assignFields переносит редактируемые поля; ID, дата создания и тренировки не меняются.
func assignFields(dst *models.Client, src models.Client) {
	dst.Name = src.Name
	dst.Email = src.Email
	dst.Phone = src.Phone
	dst.StartDate = src.StartDate
	dst.ExpiryDate = src.ExpiryDate
	dst.DefaultTimeSlot = src.DefaultTimeSlot
	dst.TotalFee = src.TotalFee
	dst.PaidAmount = src.PaidAmount
	dst.Notes = src.Notes
	dst.PaymentPlan = src.PaymentPlan
}

// writeError приводит ошибки атомарного изменения к ошибкам сервиса.
func writeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrClientNotFound):
		return ErrClientNotFound
	case errors.Is(err, ErrSessionNotFound):
		return ErrSessionNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *ClientService) remember(ctx context.Context, client models.Client) {
	key := clientKey(client.ID)
	if err := s.cache.Set(ctx, key, client, s.ttl); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", key), sl.Err(err))
	}
}

func (s *ClientService) forget(ctx context.Context, id string) {
	key := clientKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}

func invoiceNumber(id string, issued time.Time) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("INV-%s-%s", issued.Format("20060102"), strings.ToUpper(short))
}
