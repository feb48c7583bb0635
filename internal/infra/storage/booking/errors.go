package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrNoOverlap возвращается, когда пересекающихся бронирований нет
	ErrNoOverlap = errors.New("booking.repository: no overlapping booking")

	// ErrStatusConflict возвращается, когда условное обновление статуса не
	// изменило ни одной строки: статус в БД уже не соответствует ожидаемому
	ErrStatusConflict = errors.New("booking.repository: status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
