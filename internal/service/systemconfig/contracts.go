package systemconfig

import (
	"context"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// ConfigRepository интерфейс репозитория системной конфигурации
type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) ([]*domain.PolicyEntry, error)
	Set(ctx context.Context, key, value string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
