package accept_booking

import "github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"

// AcceptBookingRequest опциональное тело запроса подтверждения
type AcceptBookingRequest struct {
	MerchantNotes *string `json:"merchantNotes,omitempty"`
}

func (r *AcceptBookingRequest) ToServiceRequest(merchantID int64) *models.TransitionRequest {
	return &models.TransitionRequest{
		MerchantID:    merchantID,
		MerchantNotes: r.MerchantNotes,
	}
}
