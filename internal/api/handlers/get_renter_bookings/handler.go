package get_renter_bookings

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

// Handle GET /api/v1/renters/me/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	renterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /renters/me/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ListBookingsRequest{OwnerID: renterID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		req.Status = &raw
	}

	result, err := h.service.GetRenterBookings(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /renters/me/bookings - Invalid status filter: renter_id=%d", renterID)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}

		h.logger.Error("GET /renters/me/bookings - Failed to list bookings: renter_id=%d, error=%v",
			renterID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /renters/me/bookings - Bookings listed: renter_id=%d, count=%d",
		renterID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
