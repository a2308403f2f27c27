package coachclients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coach-clients/internal/config"
	"github.com/magabrotheeeer/coach-clients/internal/lib/clock"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
	"github.com/magabrotheeeer/coach-clients/internal/storage"
)

type memoryRepo struct {
	mu      sync.Mutex
	clients map[string]models.Client
}

func (m *memoryRepo) SaveClient(_ context.Context, c models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

func (m *memoryRepo) ReadClient(_ context.Context, id string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, storage.ErrClientNotFound
	}
	return &c, nil
}

func (m *memoryRepo) ListClients(_ context.Context) ([]*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, &c)
	}
	return out, nil
}

func (m *memoryRepo) RemoveClient(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return 0, nil
	}
	delete(m.clients, id)
	return 1, nil
}

func (m *memoryRepo) UpdateClient(_ context.Context, id string, mutate func(*models.Client) error) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, storage.ErrClientNotFound
	}
	c.Sessions = append([]models.Session(nil), c.Sessions...)
	if err := mutate(&c); err != nil {
		return nil, err
	}
	m.clients[id] = c
	return &c, nil
}

type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (noCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noCache) Invalidate(context.Context, string) error              { return nil }

type counterIDs struct{ n int }

func (c *counterIDs) NewID() string {
	c.n++
	return "id-" + strconv.Itoa(c.n)
}

func newTestRouter(t *testing.T, ready func() error) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fixed(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	svc := services.NewClientService(&memoryRepo{clients: map[string]models.Client{}}, noCache{},
		&counterIDs{}, clk, time.Hour, logger)

	r := chi.NewRouter()
	RegisterRoutes(r, logger, config.RateLimit{RPS: 1000, Burst: 1000}, svc, ready)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRoutes_ClientLifecycle(t *testing.T) {
	router := newTestRouter(t, func() error { return nil })

	payload := []byte(`{"name":"Anna","start_date":"2024-01-01","expiry_date":"2024-01-31","default_time_slot":"07:30","total_fee":400}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "id-1", data["id"])

	rec = httptest.NewRecorder()
	toggle := []byte(`{"date":"2024-01-15","recurring":true}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients/id-1/sessions/toggle", bytes.NewReader(toggle)))
	require.Equal(t, http.StatusOK, rec.Code)
	sessions := decode(t, rec)["data"].(map[string]any)["sessions"].([]any)
	assert.Len(t, sessions, 3)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients?status=active", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	clients := decode(t, rec)["data"].(map[string]any)["clients"].([]any)
	assert.Len(t, clients, 1)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients/id-1/invoice", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/clients/id-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients/id-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_Health(t *testing.T) {
	tests := []struct {
		name  string
		ready func() error
		want  int
	}{
		{name: "ready", ready: func() error { return nil }, want: http.StatusOK},
		{name: "not ready", ready: func() error { return errors.New("no table") }, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestRouter(t, tt.ready).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoutes_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
