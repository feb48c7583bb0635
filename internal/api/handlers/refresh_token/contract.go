package refresh_token

import (
	"context"

	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

type AuthService interface {
	Refresh(ctx context.Context, req *authModels.RefreshRequest) (*authModels.TokenPairResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
