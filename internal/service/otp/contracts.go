package otp

import (
	"context"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// OTPRepository интерфейс репозитория одноразовых кодов
type OTPRepository interface {
	Create(ctx context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error)
	FindActive(ctx context.Context, phone string, now time.Time) (*domain.OneTimeCode, error)
	FindMostRecent(ctx context.Context, phone string) (*domain.OneTimeCode, error)
	IncrementAttempts(ctx context.Context, id int64, maxAttempts int) (int, error)
	MarkVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PolicySource интерфейс источника настраиваемых политик
type PolicySource interface {
	OTPExpiryMinutes(ctx context.Context) int
	OTPMaxAttempts(ctx context.Context) int
	OTPResendCooldownSeconds(ctx context.Context) int
}

// Notifier интерфейс асинхронной доставки кодов
type Notifier interface {
	DeliverOTP(phone, code string)
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
