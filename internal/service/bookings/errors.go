package bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidState возвращается, когда переход недопустим из текущего статуса
	ErrInvalidState = errors.New("invalid booking state for this transition")

	// ErrCancellationWindowExpired возвращается при попытке отмены ближе к началу
	// аренды, чем разрешает политика
	ErrCancellationWindowExpired = errors.New("cancellation window expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// CancellationWindowError несет размер окна отмены, действовавшего на момент
// отказа. errors.Is(err, ErrCancellationWindowExpired) возвращает true.
type CancellationWindowError struct {
	WindowHours int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("%v: bookings can be cancelled at least %d hours before the start", ErrCancellationWindowExpired, e.WindowHours)
}

func (e *CancellationWindowError) Is(target error) bool {
	return target == ErrCancellationWindowExpired
}
