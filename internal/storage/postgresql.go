// Package storage реализует хранилище клиентов и их тренировок на основе
// PostgreSQL. Клиент сохраняется целиком: строка клиента и весь набор
// тренировок заменяются в одной транзакции.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/coach-clients/internal/models"
	"github.com/magabrotheeeer/coach-clients/internal/sessions"
)

// ErrClientNotFound возвращается, если клиента с таким ID нет.
var ErrClientNotFound = errors.New("client not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables 
        WHERE table_name = 'clients'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage.CheckDatabaseReady: %w", err)
	}
	if !exists {
		return errors.New("storage.CheckDatabaseReady: required table clients missing")
	}
	return nil
}

// SaveClient создаёт или полностью заменяет клиента вместе с тренировками.
func (s *Storage) SaveClient(ctx context.Context, c models.Client) error {
	const op = "storage.SaveClient"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err = writeClient(ctx, tx, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateClient читает клиента под блокировкой строки, применяет mutate и
// сохраняет результат в той же транзакции. Изменения одного клиента
// выполняются строго последовательно. Если клиента нет или он удалён
// конкурентно, возвращается ErrClientNotFound. Ошибка mutate откатывает
// транзакцию и возвращается обёрнутой.
func (s *Storage) UpdateClient(ctx context.Context, id string, mutate func(*models.Client) error) (*models.Client, error) {
	const op = "storage.UpdateClient"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	c, err := scanClient(tx.QueryRowContext(ctx, selectClients+` WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrClientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byClient, err := listSessions(ctx, tx, `WHERE client_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Sessions = sessions.SortedByDateTime(byClient[c.ID])

	if err = mutate(c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.ID = id

	if err = writeClient(ctx, tx, *c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// writeClient делает upsert строки клиента и заменяет весь набор тренировок.
func writeClient(ctx context.Context, tx *sql.Tx, c models.Client) error {
	plan, err := marshalPlan(c.PaymentPlan)
	if err != nil {
		return err
	}

	query := `INSERT INTO clients (id, name, email, phone, start_date, expiry_date,
				default_time_slot, total_fee, paid_amount, notes, created_at, payment_plan)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone,
				start_date = EXCLUDED.start_date, expiry_date = EXCLUDED.expiry_date,
				default_time_slot = EXCLUDED.default_time_slot, total_fee = EXCLUDED.total_fee,
				paid_amount = EXCLUDED.paid_amount, notes = EXCLUDED.notes,
				payment_plan = EXCLUDED.payment_plan`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.StartDate, c.ExpiryDate,
		c.DefaultTimeSlot, c.TotalFee, c.PaidAmount, c.Notes, c.CreatedAt, plan)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE client_id = $1`, c.ID); err != nil {
		return err
	}

	for _, session := range c.Sessions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (id, client_id, date, time, status, completed)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			session.ID, c.ID, session.Date, session.Time, string(session.Status), session.Completed)
		if err != nil {
			return fmt.Errorf("session %s: %w", session.ID, err)
		}
	}
	return nil
}

// ReadClient возвращает клиента по ID вместе с тренировками.
func (s *Storage) ReadClient(ctx context.Context, id string) (*models.Client, error) {
	const op = "storage.ReadClient"

	row := s.DB.QueryRowContext(ctx, selectClients+` WHERE id = $1`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrClientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byClient, err := listSessions(ctx, s.DB, `WHERE client_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Sessions = sessions.SortedByDateTime(byClient[c.ID])
	return c, nil
}

// ListClients возвращает всех клиентов, упорядоченных по имени.
func (s *Storage) ListClients(ctx context.Context) ([]*models.Client, error) {
	const op = "storage.ListClients"

	rows, err := s.DB.QueryContext(ctx, selectClients+` ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byClient, err := listSessions(ctx, s.DB, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, c := range clients {
		c.Sessions = sessions.SortedByDateTime(byClient[c.ID])
	}
	return clients, nil
}

// RemoveClient удаляет клиента и возвращает количество удалённых строк.
// Тренировки удаляются каскадно.
func (s *Storage) RemoveClient(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveClient"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

const selectClients = `SELECT id, name, email, phone, start_date, expiry_date, default_time_slot,
				total_fee, paid_amount, notes, created_at, payment_plan
			  FROM clients`

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*models.Client, error) {
	var (
		c    models.Client
		plan []byte
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.StartDate, &c.ExpiryDate,
		&c.DefaultTimeSlot, &c.TotalFee, &c.PaidAmount, &c.Notes, &c.CreatedAt, &plan)
	if err != nil {
		return nil, err
	}
	if len(plan) > 0 {
		c.PaymentPlan = &models.PaymentPlan{}
		if err := json.Unmarshal(plan, c.PaymentPlan); err != nil {
			return nil, err
		}
	}
	c.StartDate = c.StartDate.UTC()
	c.ExpiryDate = c.ExpiryDate.UTC()
	return &c, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listSessions(ctx context.Context, q querier, where string, args ...any) (map[string][]models.Session, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT client_id, id, date, time, status, completed FROM sessions `+where, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]models.Session)
	for rows.Next() {
		var (
			clientID string
			session  models.Session
			status   string
		)
		if err := rows.Scan(&clientID, &session.ID, &session.Date, &session.Time, &status, &session.Completed); err != nil {
			return nil, err
		}
		session.Status = models.SessionStatus(status)
		out[clientID] = append(out[clientID], session)
	}
	return out, rows.Err()
}

func marshalPlan(plan *models.PaymentPlan) (any, error) {
	if plan == nil {
		return nil, nil
	}
	b, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
