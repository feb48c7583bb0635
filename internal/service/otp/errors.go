package otp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhone возвращается при телефоне не в формате E.164
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrRateLimited возвращается при повторной отправке до истечения cooldown
	ErrRateLimited = errors.New("resend cooldown not elapsed")

	// ErrCodeExpired возвращается, когда активный код не найден или просрочен
	ErrCodeExpired = errors.New("code expired or not found")

	// ErrInvalidCode возвращается при несовпадении кода
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrMaxAttemptsExceeded возвращается, когда лимит попыток исчерпан
	ErrMaxAttemptsExceeded = errors.New("maximum verification attempts exceeded")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// RateLimitError несет количество секунд до разрешенной повторной отправки.
// errors.Is(err, ErrRateLimited) возвращает true.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%v: retry after %d seconds", ErrRateLimited, e.RetryAfterSeconds)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
