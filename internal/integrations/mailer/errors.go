package mailer

import "errors"

var (
	// ErrNotConfigured возвращается, когда SMTP хост не задан
	ErrNotConfigured = errors.New("mailer: not configured")

	// ErrSendFailed возвращается при ошибке отправки письма
	ErrSendFailed = errors.New("mailer: failed to send email")
)
