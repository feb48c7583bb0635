package reject_booking

import "github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"

// RejectBookingRequest опциональное тело запроса отклонения
type RejectBookingRequest struct {
	MerchantNotes *string `json:"merchantNotes,omitempty"`
}

func (r *RejectBookingRequest) ToServiceRequest(merchantID int64) *models.TransitionRequest {
	return &models.TransitionRequest{
		MerchantID:    merchantID,
		MerchantNotes: r.MerchantNotes,
	}
}
