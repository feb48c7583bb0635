package send_otp

import (
	"context"

	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

type AuthService interface {
	SendOTP(ctx context.Context, req *authModels.SendOTPRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
