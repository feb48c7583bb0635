package create_booking

import (
	"fmt"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RenterID <= 0 {
		return fmt.Errorf("%w: renterID must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDates проверяет интервал аренды: конец строго позже начала,
// начало строго в будущем
func validateDates(start, end, now time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidDates)
	}

	if !start.After(now) {
		return fmt.Errorf("%w: startDate must be in the future", ErrInvalidDates)
	}

	return nil
}
