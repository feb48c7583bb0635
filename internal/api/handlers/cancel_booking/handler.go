package cancel_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "доступ запрещён"
	msgInvalidState     = "бронирование нельзя отменить в текущем статусе"
	msgWindowExpiredFmt = "отмена возможна не позднее чем за %d ч. до начала аренды"
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

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	renterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.Cancel(r.Context(), bookingID, &models.CancelBookingRequest{RenterID: renterID})
	if err != nil {
		var windowErr *bookings.CancellationWindowError

		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, renter_id=%d",
				bookingID, renterID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.As(err, &windowErr):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cancellation window expired: booking_id=%d, window_hours=%d",
				bookingID, windowErr.WindowHours)
			handlers.RespondError(w, http.StatusConflict, fmt.Sprintf(msgWindowExpiredFmt, windowErr.WindowHours))

		case errors.Is(err, bookings.ErrInvalidState):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid state: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidState)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, renter_id=%d",
		bookingID, renterID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
