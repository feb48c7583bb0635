package models

import (
	"errors"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// TransitionRequest запрос владельца на смену статуса бронирования
type TransitionRequest struct {
	MerchantID    int64   `json:"merchantId"`
	MerchantNotes *string `json:"merchantNotes,omitempty"`
}

// CancelBookingRequest запрос арендатора на отмену бронирования
type CancelBookingRequest struct {
	RenterID int64 `json:"renterId"`
}

// ListBookingsRequest запрос на получение списка бронирований
type ListBookingsRequest struct {
	OwnerID int64   `json:"ownerId"`
	Status  *string `json:"status,omitempty"` // опциональный фильтр по статусу
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	RenterID   int64  `json:"renterId"`
	MerchantID int64  `json:"merchantId"`
	VehicleID  int64  `json:"vehicleId"`
	StartDate  string `json:"startDate"` // ISO 8601
	EndDate    string `json:"endDate"`   // ISO 8601
	Status     string `json:"status"`

	TotalPrice float64 `json:"totalPrice"`

	RenterNotes   *string `json:"renterNotes,omitempty"`
	MerchantNotes *string `json:"merchantNotes,omitempty"`

	AcceptedAt  *string `json:"acceptedAt,omitempty"`
	RejectedAt  *string `json:"rejectedAt,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// MerchantStatsResponse агрегированная статистика владельца
type MerchantStatsResponse struct {
	CurrentMonthEarnings float64 `json:"currentMonthEarnings"`
	TotalEarnings        float64 `json:"totalEarnings"`
	ActiveCount          int64   `json:"activeCount"`
	TotalCount           int64   `json:"totalCount"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusAccepted, domain.StatusRejected,
		domain.StatusCompleted, domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		RenterID:      b.RenterID,
		MerchantID:    b.MerchantID,
		VehicleID:     b.VehicleID,
		StartDate:     b.StartDate.Format(time.RFC3339),
		EndDate:       b.EndDate.Format(time.RFC3339),
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice,
		RenterNotes:   b.RenterNotes,
		MerchantNotes: b.MerchantNotes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	resp.AcceptedAt = formatTime(b.AcceptedAt)
	resp.RejectedAt = formatTime(b.RejectedAt)
	resp.CompletedAt = formatTime(b.CompletedAt)
	resp.CancelledAt = formatTime(b.CancelledAt)

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainStats конвертирует domain статистику в DTO
func FromDomainStats(s *domain.MerchantStats) *MerchantStatsResponse {
	if s == nil {
		return nil
	}
	return &MerchantStatsResponse{
		CurrentMonthEarnings: s.CurrentMonthEarnings,
		TotalEarnings:        s.TotalEarnings,
		ActiveCount:          s.ActiveCount,
		TotalCount:           s.TotalCount,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
