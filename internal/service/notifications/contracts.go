package notifications

import "context"

// EmailSender интерфейс клиента для отправки почтовых уведомлений
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// OTPMessenger интерфейс клиента для доставки кодов подтверждения
type OTPMessenger interface {
	SendOTPMessage(ctx context.Context, phone, code string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
