package create_booking

import (
	"time"

	createBooking "github.com/rentmyvroom/RMV-CoreService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VehicleID int64   `json:"vehicleId"`
	StartDate string  `json:"startDate"` // RFC 3339, например "2026-09-01T10:00:00Z"
	EndDate   string  `json:"endDate"`   // RFC 3339
	Notes     *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	RenterID   int64   `json:"renterId"`
	MerchantID int64   `json:"merchantId"`
	VehicleID  int64   `json:"vehicleId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"totalPrice"`
	RentalDays int     `json:"rentalDays"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(renterID int64) (*createBooking.Request, error) {
	startDate, err := time.Parse(time.RFC3339, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(time.RFC3339, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		RenterID:  renterID,
		VehicleID: r.VehicleID,
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		RenterID:   resp.RenterID,
		MerchantID: resp.MerchantID,
		VehicleID:  resp.VehicleID,
		StartDate:  resp.StartDate.Format(time.RFC3339),
		EndDate:    resp.EndDate.Format(time.RFC3339),
		Status:     resp.Status,
		TotalPrice: resp.TotalPrice,
		RentalDays: resp.RentalDays,
		Notes:      resp.Notes,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
