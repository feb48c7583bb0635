package get_merchant_bookings

import (
	"context"

	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"
)

type BookingService interface {
	GetMerchantBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
