package bookings

import (
	"context"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	bookingRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRenterID(ctx context.Context, renterID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByMerchantID(ctx context.Context, merchantID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus, upd bookingRepo.StatusUpdate) (*domain.Booking, error)
	GetMerchantStats(ctx context.Context, merchantID int64, monthStart, monthEnd time.Time) (*domain.MerchantStats, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// PolicySource интерфейс источника настраиваемых политик
type PolicySource interface {
	CancellationWindowHours(ctx context.Context) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Notifier интерфейс асинхронных уведомлений о смене статуса
type Notifier interface {
	NotifyBookingAccepted(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle)
	NotifyBookingRejected(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle)
	NotifyBookingCompleted(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle)
	NotifyBookingCancelled(merchant, renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
