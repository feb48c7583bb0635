package merchant_stats

import (
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgMerchantsOnly = "статистика доступна только владельцам"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/merchants/me/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /merchants/me/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if role, ok := middleware.GetUserRole(r.Context()); !ok || role != string(domain.RoleMerchant) {
		h.logger.Warn("GET /merchants/me/stats - Access denied: user_id=%d, role=%s", merchantID, role)
		handlers.RespondForbidden(w, msgMerchantsOnly)
		return
	}

	result, err := h.service.MerchantStats(r.Context(), merchantID)
	if err != nil {
		h.logger.Error("GET /merchants/me/stats - Failed to get stats: merchant_id=%d, error=%v",
			merchantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /merchants/me/stats - Stats retrieved: merchant_id=%d", merchantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
