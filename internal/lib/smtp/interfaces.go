// Package smtp предоставляет транспорт для отправки писем по SMTP со STARTTLS.
package smtp

import "io"

// Client подмножество методов *smtp.Client, которое нужно отправителю.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает авторизованную сессию с SMTP сервером.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
