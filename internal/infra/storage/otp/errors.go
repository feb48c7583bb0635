package otp

import "errors"

var (
	// ErrCodeNotFound возвращается, когда активный код для телефона не найден
	ErrCodeNotFound = errors.New("otp.repository: code not found")

	// ErrAttemptsExhausted возвращается, когда счетчик попыток уже достиг максимума
	// (условный UPDATE не изменил ни одной строки)
	ErrAttemptsExhausted = errors.New("otp.repository: attempts exhausted")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("otp.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("otp.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("otp.repository: failed to scan row")
)
