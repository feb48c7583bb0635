package find_available_vehicles

import "errors"

var (
	// ErrInvalidDates возвращается при некорректном интервале поиска
	ErrInvalidDates = errors.New("find_available_vehicles: invalid search dates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_available_vehicles: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_available_vehicles: internal error")
)
