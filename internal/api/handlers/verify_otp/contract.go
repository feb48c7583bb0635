package verify_otp

import (
	"context"

	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

type AuthService interface {
	VerifyOTP(ctx context.Context, req *authModels.VerifyOTPRequest) (*authModels.TokenPairResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
