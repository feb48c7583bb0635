package get_system_config

import (
	"net/http"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

const msgAdminsOnly = "операция доступна только администраторам"

// ConfigEntryResponse запись конфигурации в API ответе
type ConfigEntryResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConfigResponse ответ со всеми управляемыми параметрами
type ConfigResponse struct {
	Entries []ConfigEntryResponse `json:"entries"`
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

// Handle GET /api/v1/admin/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if role, ok := middleware.GetUserRole(r.Context()); !ok || role != string(domain.RoleAdmin) {
		h.logger.Warn("GET /admin/config - Access denied: role=%s", role)
		handlers.RespondForbidden(w, msgAdminsOnly)
		return
	}

	entries, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/config - Failed to load config: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := &ConfigResponse{Entries: make([]ConfigEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, ConfigEntryResponse{
			Key:       e.Key,
			Value:     e.Value,
			UpdatedAt: e.UpdatedAt,
		})
	}

	h.logger.Info("GET /admin/config - Config retrieved: count=%d", len(entries))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
