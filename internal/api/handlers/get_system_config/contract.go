package get_system_config

import (
	"context"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

type ConfigService interface {
	GetAll(ctx context.Context) ([]*domain.PolicyEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
