package find_available_vehicles

import (
	"context"

	findVehicles "github.com/rentmyvroom/RMV-CoreService/internal/usecase/find_available_vehicles"
)

type FindAvailableVehiclesUseCase interface {
	Execute(ctx context.Context, req *findVehicles.Request) (*findVehicles.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
