package whatsapp

import "errors"

var (
	// ErrNotConfigured возвращается, когда не заданы access token или phone number ID
	ErrNotConfigured = errors.New("whatsapp client: not configured")

	// ErrInvalidPhone возвращается при номере не в формате E.164
	ErrInvalidPhone = errors.New("whatsapp client: invalid phone number")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("whatsapp client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе Cloud API
	ErrInvalidResponse = errors.New("whatsapp client: invalid response")
)
