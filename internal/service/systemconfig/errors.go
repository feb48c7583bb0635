package systemconfig

import "errors"

var (
	// ErrKeyNotFound возвращается, когда ключ конфигурации не найден
	ErrKeyNotFound = errors.New("config key not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
