package find_available_vehicles

import (
	findVehicles "github.com/rentmyvroom/RMV-CoreService/internal/usecase/find_available_vehicles"
)

// VehicleResponse данные автомобиля в API ответе
type VehicleResponse struct {
	ID           int64   `json:"id"`
	MerchantID   int64   `json:"merchantId"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	PricePerDay  float64 `json:"pricePerDay"`
	EstimatedFee float64 `json:"estimatedFee"`
}

// FindAvailableVehiclesResponse ответ на поиск доступных автомобилей
type FindAvailableVehiclesResponse struct {
	Vehicles   []VehicleResponse `json:"vehicles"`
	RentalDays int               `json:"rentalDays"`
}

// FromUseCaseResponse конвертирует результат usecase в API модель
func FromUseCaseResponse(result *findVehicles.Response) *FindAvailableVehiclesResponse {
	vehicles := make([]VehicleResponse, 0, len(result.Vehicles))
	for _, v := range result.Vehicles {
		vehicles = append(vehicles, VehicleResponse{
			ID:           v.ID,
			MerchantID:   v.MerchantID,
			Make:         v.Make,
			Model:        v.Model,
			Year:         v.Year,
			PricePerDay:  v.PricePerDay,
			EstimatedFee: v.EstimatedFee,
		})
	}

	return &FindAvailableVehiclesResponse{
		Vehicles:   vehicles,
		RentalDays: result.RentalDays,
	}
}
