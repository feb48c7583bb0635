package find_available_vehicles

import (
	"context"
	"fmt"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// UseCase use case поиска автомобилей, свободных на запрошенный период.
// Занятость считается по активным бронированиям (pending, accepted);
// соприкасающиеся интервалы не считаются пересечением.
type UseCase struct {
	vehicleRepo  VehicleRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(vehicleRepo VehicleRepository, logger Logger) *UseCase {
	return &UseCase{
		vehicleRepo:  vehicleRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case поиска доступных автомобилей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAvailableVehicles: period=%s to %s",
		req.StartDate.Format(time.RFC3339), req.EndDate.Format(time.RFC3339))

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must be after startDate", ErrInvalidDates)
	}

	if req.StartDate.Before(uc.timeProvider.Now()) {
		return nil, fmt.Errorf("%w: startDate must not be in the past", ErrInvalidDates)
	}

	vehicles, err := uc.vehicleRepo.FindAvailable(ctx, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("FindAvailableVehicles: repository error: %v", err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	rentalDays := domain.RentalDays(req.StartDate, req.EndDate)

	resp := &Response{
		Vehicles:   make([]VehicleInfo, 0, len(vehicles)),
		RentalDays: rentalDays,
	}

	for _, v := range vehicles {
		resp.Vehicles = append(resp.Vehicles, VehicleInfo{
			ID:           v.ID,
			MerchantID:   v.MerchantID,
			Make:         v.Make,
			Model:        v.Model,
			Year:         v.Year,
			PricePerDay:  v.PricePerDay,
			EstimatedFee: domain.TotalPriceFor(req.StartDate, req.EndDate, v.PricePerDay),
		})
	}

	uc.logger.Info("FindAvailableVehicles: %d vehicle(s) available", len(resp.Vehicles))
	return resp, nil
}
