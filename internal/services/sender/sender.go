// Package services содержит отправителя писем: он получает уведомления
// планировщика из очередей и пишет клиентам.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/coach-clients/internal/clientstatus"
	"github.com/magabrotheeeer/coach-clients/internal/lib/sl"
	"github.com/magabrotheeeer/coach-clients/internal/lib/smtp"
	"github.com/magabrotheeeer/coach-clients/internal/models"
)

// SenderService превращает уведомления в письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendNotification обрабатывает тело сообщения из очереди уведомлений.
// Клиенту без почты письмо не отправляется, сообщение считается обработанным.
func (s *SenderService) SendNotification(body []byte) error {
	const op = "services.sender.SendNotification"

	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Op(op), sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.Email == "" {
		s.log.Info("client has no email, skipping", sl.Op(op), slog.String("client_id", message.ClientID))
		return nil
	}

	subject, text := compose(message)
	return s.sendEmail([]string{message.Email}, subject, text)
}

func compose(m models.Notification) (subject, text string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Здравствуйте, %s!\n\n", m.Name)

	switch clientstatus.Category(m.Category) {
	case clientstatus.ExpiringSoon:
		subject = "Ваш абонемент скоро закончится"
		fmt.Fprintf(&b, "Ваш абонемент действует до %s (осталось дней: %d).\n", m.ExpiryDate, m.DaysLeft)
		b.WriteString("Напишите тренеру, чтобы продлить занятия.\n")
	case clientstatus.Expired:
		subject = "Ваш абонемент закончился"
		fmt.Fprintf(&b, "Срок абонемента истёк %s.\n", m.ExpiryDate)
		b.WriteString("Будем рады продолжить тренировки, если вы продлите абонемент.\n")
	default:
		subject = "Запланируем следующую тренировку?"
		b.WriteString("У вас нет запланированных тренировок или есть пропущенные.\n")
		b.WriteString("Свяжитесь с тренером, чтобы выбрать удобное время.\n")
	}
	if m.BalanceDue > 0 {
		fmt.Fprintf(&b, "\nК оплате: %.2f.\n", m.BalanceDue)
	}
	return subject, b.String()
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
