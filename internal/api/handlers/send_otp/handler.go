package send_otp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/auth"
	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
	otpService "github.com/rentmyvroom/RMV-CoreService/internal/service/otp"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPhone       = "некорректный номер телефона, ожидается формат E.164"
	msgInvalidRole        = "некорректная роль, ожидается renter или merchant"
	msgRoleMismatch       = "номер уже зарегистрирован с другой ролью"
	msgCodeSent           = "код подтверждения отправлен"
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

// SendOTPResponse тело успешного ответа
type SendOTPResponse struct {
	Message string `json:"message"`
}

// RateLimitedResponse тело ответа при превышении частоты отправки
type RateLimitedResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
}

// Handle POST /api/v1/auth/otp/send
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req authModels.SendOTPRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/otp/send - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SendOTP(r.Context(), &req); err != nil {
		var rateErr *otpService.RateLimitError

		switch {
		case errors.Is(err, auth.ErrInvalidRole):
			h.logger.Warn("POST /auth/otp/send - Invalid role: %s", req.Role)
			handlers.RespondBadRequest(w, msgInvalidRole)

		case errors.Is(err, auth.ErrRoleMismatch):
			h.logger.Warn("POST /auth/otp/send - Role mismatch")
			handlers.RespondForbidden(w, msgRoleMismatch)

		case errors.Is(err, otpService.ErrInvalidPhone):
			h.logger.Warn("POST /auth/otp/send - Invalid phone format")
			handlers.RespondBadRequest(w, msgInvalidPhone)

		case errors.As(err, &rateErr):
			h.logger.Warn("POST /auth/otp/send - Rate limited, retry after %ds", rateErr.RetryAfterSeconds)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", rateErr.RetryAfterSeconds))
			handlers.RespondJSON(w, http.StatusTooManyRequests, RateLimitedResponse{
				Error:             fmt.Sprintf("повторная отправка будет доступна через %d сек.", rateErr.RetryAfterSeconds),
				RetryAfterSeconds: rateErr.RetryAfterSeconds,
			})

		default:
			h.logger.Error("POST /auth/otp/send - Failed to send code: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Ответ не раскрывает, существует ли аккаунт с этим номером
	h.logger.Info("POST /auth/otp/send - Code sent")
	handlers.RespondJSON(w, http.StatusOK, SendOTPResponse{Message: msgCodeSent})
}
