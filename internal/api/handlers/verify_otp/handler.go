package verify_otp

import (
	"errors"
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/auth"
	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
	otpService "github.com/rentmyvroom/RMV-CoreService/internal/service/otp"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRole         = "некорректная роль, ожидается renter или merchant"
	msgRoleMismatch        = "номер уже зарегистрирован с другой ролью"
	msgCodeExpired         = "код не найден или просрочен, запросите новый"
	msgInvalidCode         = "неверный код подтверждения"
	msgMaxAttemptsExceeded = "превышено число попыток, запросите новый код"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/otp/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req authModels.VerifyOTPRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/otp/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	pair, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRole):
			h.logger.Warn("POST /auth/otp/verify - Invalid role: %s", req.Role)
			handlers.RespondBadRequest(w, msgInvalidRole)

		case errors.Is(err, auth.ErrRoleMismatch):
			h.logger.Warn("POST /auth/otp/verify - Role mismatch")
			handlers.RespondForbidden(w, msgRoleMismatch)

		case errors.Is(err, otpService.ErrCodeExpired):
			h.logger.Warn("POST /auth/otp/verify - Code expired or not found")
			handlers.RespondBadRequest(w, msgCodeExpired)

		case errors.Is(err, otpService.ErrInvalidCode):
			h.logger.Warn("POST /auth/otp/verify - Invalid code")
			handlers.RespondUnauthorized(w, msgInvalidCode)

		case errors.Is(err, otpService.ErrMaxAttemptsExceeded):
			h.logger.Warn("POST /auth/otp/verify - Max attempts exceeded")
			handlers.RespondError(w, http.StatusTooManyRequests, msgMaxAttemptsExceeded)

		default:
			h.logger.Error("POST /auth/otp/verify - Failed to verify code: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/otp/verify - User logged in: user_id=%d", pair.User.ID)
	handlers.RespondJSON(w, http.StatusOK, pair)
}
