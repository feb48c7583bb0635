package create_booking

import "errors"

var (
	// ErrRenterNotFound возвращается, когда арендатор не найден
	ErrRenterNotFound = errors.New("create_booking: renter not found")

	// ErrNotARenter возвращается, когда бронировать пытается не арендатор
	ErrNotARenter = errors.New("create_booking: only renters can create bookings")

	// ErrLicenseNotApproved возвращается, когда удостоверение арендатора
	// не прошло проверку
	ErrLicenseNotApproved = errors.New("create_booking: driving license is not approved")

	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = errors.New("create_booking: vehicle not found")

	// ErrVehicleUnavailable возвращается, когда автомобиль снят с публикации
	ErrVehicleUnavailable = errors.New("create_booking: vehicle is not available for booking")

	// ErrInvalidDates возвращается при некорректном интервале аренды
	ErrInvalidDates = errors.New("create_booking: invalid rental dates")

	// ErrDatesConflict возвращается, когда интервал пересекается с активным
	// бронированием этого автомобиля
	ErrDatesConflict = errors.New("create_booking: dates conflict with an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
