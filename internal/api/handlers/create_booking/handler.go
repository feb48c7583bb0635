package create_booking

import (
	"errors"
	"net/http"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	createBooking "github.com/rentmyvroom/RMV-CoreService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается RFC 3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgRenterNotFound     = "пользователь не найден"
	msgNotARenter         = "бронирование доступно только арендаторам"
	msgLicenseNotApproved = "водительское удостоверение не подтверждено"
	msgVehicleNotFound    = "автомобиль не найден"
	msgVehicleUnavailable = "автомобиль недоступен для бронирования"
	msgInvalidDates       = "некорректный период аренды"
	msgDatesConflict      = "выбранные даты уже заняты"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Арендатором всегда выступает аутентифицированный пользователь
	renterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(renterID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrDatesConflict):
			h.logger.Warn("POST /bookings - Dates conflict: renter_id=%d, vehicle_id=%d", renterID, req.VehicleID)
			handlers.RespondError(w, http.StatusConflict, msgDatesConflict)

		case errors.Is(err, createBooking.ErrRenterNotFound):
			h.logger.Warn("POST /bookings - Renter not found: renter_id=%d", renterID)
			handlers.RespondNotFound(w, msgRenterNotFound)

		case errors.Is(err, createBooking.ErrNotARenter):
			h.logger.Warn("POST /bookings - Not a renter: renter_id=%d", renterID)
			handlers.RespondForbidden(w, msgNotARenter)

		case errors.Is(err, createBooking.ErrLicenseNotApproved):
			h.logger.Warn("POST /bookings - License not approved: renter_id=%d", renterID)
			handlers.RespondForbidden(w, msgLicenseNotApproved)

		case errors.Is(err, createBooking.ErrVehicleNotFound):
			h.logger.Warn("POST /bookings - Vehicle not found: vehicle_id=%d", req.VehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, createBooking.ErrVehicleUnavailable):
			h.logger.Warn("POST /bookings - Vehicle unavailable: vehicle_id=%d", req.VehicleID)
			handlers.RespondError(w, http.StatusConflict, msgVehicleUnavailable)

		case errors.Is(err, createBooking.ErrInvalidDates):
			h.logger.Warn("POST /bookings - Invalid dates: renter_id=%d", renterID)
			handlers.RespondBadRequest(w, msgInvalidDates)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: renter_id=%d, vehicle_id=%d, error=%v",
				renterID, req.VehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, renter_id=%d, vehicle_id=%d",
		result.ID, renterID, req.VehicleID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
