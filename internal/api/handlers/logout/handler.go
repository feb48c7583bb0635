package logout

import (
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	authModels "github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

const msgInvalidRequestBody = "некорректное тело запроса"

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

// Handle POST /api/v1/auth/logout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req authModels.LogoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/logout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Logout(r.Context(), &req); err != nil {
		h.logger.Error("POST /auth/logout - Failed to revoke session: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /auth/logout - Session revoked")
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
