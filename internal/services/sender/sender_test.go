package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coach-clients/internal/lib/smtp"
	"github.com/magabrotheeeer/coach-clients/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const expiringBody = `{"client_id":"c-1","name":"Anna","email":"anna@example.com","category":"expiring_soon",` +
	`"label":"Expiring Soon","expiry_date":"2024-01-14","days_left":4,"balance_due":250,"issued_at":"2024-01-10"}`

func expectDelivery(t *MockTransport, to string) {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	t.On("GetSMTPUser").Return("coach@example.com")
	t.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "coach@example.com").Return(nil).Once()
	mockClient.On("Rcpt", to).Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
}

func TestSenderService_SendNotification(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - expiring notification",
			body: []byte(expiringBody),
			setupMocks: func(t *MockTransport) {
				expectDelivery(t, "anna@example.com")
			},
		},
		{
			name: "no email - skipped",
			body: []byte(`{"client_id":"c-2","name":"Boris","category":"needs_follow_up"}`),
			setupMocks: func(_ *MockTransport) {
				// Письмо не отправляется
			},
		},
		{
			name: "invalid JSON",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockTransport) {
				// No transport calls expected for invalid JSON
			},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "SMTP connection error",
			body: []byte(expiringBody),
			setupMocks: func(t *MockTransport) {
				t.On("GetSMTPUser").Return("coach@example.com")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(transport, newNoopLogger())

			tt.setupMocks(transport)

			err := service.SendNotification(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_SendNotification_RcptError(t *testing.T) {
	transport := new(MockTransport)
	mockClient := new(MockSMTPClient)

	transport.On("GetSMTPUser").Return("coach@example.com")
	transport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "coach@example.com").Return(nil).Once()
	mockClient.On("Rcpt", "anna@example.com").Return(errors.New("mailbox unavailable")).Once()
	mockClient.On("Close").Return(nil).Once()

	err := NewSenderService(transport, newNoopLogger()).SendNotification([]byte(expiringBody))

	assert.EqualError(t, err, "mailbox unavailable")
	mockClient.AssertExpectations(t)
	mockClient.AssertNotCalled(t, "Data")
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name        string
		message     models.Notification
		wantSubject string
		wantParts   []string
	}{
		{
			name:        "expiring soon",
			message:     models.Notification{Name: "Anna", Category: "expiring_soon", ExpiryDate: "2024-01-14", DaysLeft: 4, BalanceDue: 250},
			wantSubject: "Ваш абонемент скоро закончится",
			wantParts:   []string{"Anna", "2024-01-14", "осталось дней: 4", "К оплате: 250.00"},
		},
		{
			name:        "expired without debt",
			message:     models.Notification{Name: "Vera", Category: "expired", ExpiryDate: "2024-01-09"},
			wantSubject: "Ваш абонемент закончился",
			wantParts:   []string{"Vera", "2024-01-09"},
		},
		{
			name:        "needs follow-up",
			message:     models.Notification{Name: "Boris", Category: "needs_follow_up"},
			wantSubject: "Запланируем следующую тренировку?",
			wantParts:   []string{"Boris", "нет запланированных"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, text := compose(tt.message)
			assert.Equal(t, tt.wantSubject, subject)
			for _, part := range tt.wantParts {
				assert.Contains(t, text, part)
			}
			if tt.message.BalanceDue <= 0 {
				assert.NotContains(t, text, "К оплате")
			}
		})
	}
}
