package update_system_config

import (
	"errors"
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/systemconfig"
)

const (
	msgAdminsOnly         = "операция доступна только администраторам"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidKeyOrValue  = "некорректный ключ или значение параметра"
	msgConfigUpdated      = "параметр обновлён"
)

// UpdateConfigRequest запрос на изменение управляемого параметра
type UpdateConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateConfigResponse ответ на изменение параметра
type UpdateConfigResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if role, ok := middleware.GetUserRole(r.Context()); !ok || role != string(domain.RoleAdmin) {
		h.logger.Warn("PUT /admin/config - Access denied: role=%s", role)
		handlers.RespondForbidden(w, msgAdminsOnly)
		return
	}

	var req UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Set(r.Context(), req.Key, req.Value); err != nil {
		if errors.Is(err, systemconfig.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/config - Invalid key or value: key=%s", req.Key)
			handlers.RespondBadRequest(w, msgInvalidKeyOrValue)
			return
		}

		h.logger.Error("PUT /admin/config - Failed to update config: key=%s, error=%v", req.Key, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/config - Config updated: key=%s, value=%s", req.Key, req.Value)
	handlers.RespondJSON(w, http.StatusOK, UpdateConfigResponse{Message: msgConfigUpdated})
}
