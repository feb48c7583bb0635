package refresh_token

import (
	"errors"
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/auth"
	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidToken       = "недействительный refresh-токен"
	msgTokenExpired       = "refresh-токен просрочен, выполните вход заново"
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

// Handle POST /api/v1/auth/refresh
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req authModels.RefreshRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/refresh - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	pair, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			h.logger.Warn("POST /auth/refresh - Invalid token")
			handlers.RespondUnauthorized(w, msgInvalidToken)

		case errors.Is(err, auth.ErrTokenExpired):
			h.logger.Warn("POST /auth/refresh - Token expired")
			handlers.RespondUnauthorized(w, msgTokenExpired)

		default:
			h.logger.Error("POST /auth/refresh - Failed to refresh tokens: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/refresh - Tokens rotated")
	handlers.RespondJSON(w, http.StatusOK, pair)
}
