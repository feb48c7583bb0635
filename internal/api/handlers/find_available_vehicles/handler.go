package find_available_vehicles

import (
	"errors"
	"net/http"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/api/handlers"
	findVehicles "github.com/rentmyvroom/RMV-CoreService/internal/usecase/find_available_vehicles"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается RFC 3339"
	msgInvalidDates = "некорректный период поиска"
)

type Handler struct {
	useCase FindAvailableVehiclesUseCase
	logger  Logger
}

func NewHandler(useCase FindAvailableVehiclesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vehicles/available?start=...&end=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /vehicles/available - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /vehicles/available - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &findVehicles.Request{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		switch {
		case errors.Is(err, findVehicles.ErrInvalidDates), errors.Is(err, findVehicles.ErrInvalidInput):
			h.logger.Warn("GET /vehicles/available - Invalid search period: start=%s, end=%s",
				query.Get("start"), query.Get("end"))
			handlers.RespondBadRequest(w, msgInvalidDates)

		default:
			h.logger.Error("GET /vehicles/available - Failed to search vehicles: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vehicles/available - Vehicles found: count=%d", len(result.Vehicles))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
