package accept_booking

import (
	"context"

	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"
)

type BookingService interface {
	Accept(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
