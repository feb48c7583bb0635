package logout

import (
	"context"

	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

type AuthService interface {
	Logout(ctx context.Context, req *authModels.LogoutRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
