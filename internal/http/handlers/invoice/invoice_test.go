package invoice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coach-clients/internal/billing"
	"github.com/magabrotheeeer/coach-clients/internal/models"
	services "github.com/magabrotheeeer/coach-clients/internal/services/client"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Invoice(ctx context.Context, id string) (*services.Invoice, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*services.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestInvoiceHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name: "счёт сформирован",
			setupMock: func(m *MockService) {
				m.On("Invoice", mock.Anything, "c-1").Return(&services.Invoice{
					Number:   "INV-20240110-C1",
					IssuedAt: "2024-01-10",
					Client:   models.Client{ID: "c-1", Name: "Anna"},
					Summary:  billing.Summary{BalanceDue: 250, RatePerSession: 100},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"number":"INV-20240110-C1"`, `"balance_due":250`, `"rate_per_session":100`},
		},
		{
			name: "клиент не найден",
			setupMock: func(m *MockService) {
				m.On("Invoice", mock.Anything, "c-1").Return(nil, services.ErrClientNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   []string{`client not found`},
		},
		{
			name: "ошибка сервиса",
			setupMock: func(m *MockService) {
				m.On("Invoice", mock.Anything, "c-1").Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`could not build invoice`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/clients/c-1/invoice", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "c-1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, part := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), part)
			}
			mockService.AssertExpectations(t)
		})
	}
}
