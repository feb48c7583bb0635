package get_merchant_bookings

import (
	"errors"
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidStatus = "некорректный фильтр по статусу"
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

// Handle GET /api/v1/merchants/me/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /merchants/me/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ListBookingsRequest{OwnerID: merchantID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		req.Status = &raw
	}

	result, err := h.service.GetMerchantBookings(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /merchants/me/bookings - Invalid status filter: merchant_id=%d", merchantID)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}

		h.logger.Error("GET /merchants/me/bookings - Failed to list bookings: merchant_id=%d, error=%v",
			merchantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /merchants/me/bookings - Bookings listed: merchant_id=%d, count=%d",
		merchantID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
