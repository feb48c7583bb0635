package domain

import (
	"math"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a vehicle rental booking.
// StartDate/EndDate form a half-open interval [StartDate, EndDate):
// the start is included, the end is excluded.
type Booking struct {
	ID         int64
	RenterID   int64
	MerchantID int64 // denormalized from the vehicle's owner at creation time
	VehicleID  int64

	StartDate time.Time
	EndDate   time.Time
	Status    BookingStatus

	TotalPrice float64 // derived at creation, immutable afterwards

	RenterNotes   *string
	MerchantNotes *string

	AcceptedAt  *time.Time
	RejectedAt  *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the vehicle's calendar
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusAccepted
}

// IsTerminal returns true if no further transition can leave the current status
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled by the renter
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusAccepted
}

// Overlaps reports whether the booking's interval intersects [start, end).
// Touching intervals (one ends exactly where the other starts) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}

// HoursUntilStart returns the number of hours between now and the booking start.
// Negative when the booking has already started.
func (b *Booking) HoursUntilStart(now time.Time) float64 {
	return b.StartDate.Sub(now).Hours()
}

// RentalDays returns the number of billable days for the interval [start, end).
// Partial days are rounded up; a two-hour rental is billed as one full day.
func RentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// TotalPriceFor computes the booking price for the interval [start, end)
func TotalPriceFor(start, end time.Time, pricePerDay float64) float64 {
	return float64(RentalDays(start, end)) * pricePerDay
}

// MerchantStats aggregated booking figures for a merchant
type MerchantStats struct {
	CurrentMonthEarnings float64 // accepted + completed bookings starting this calendar month
	TotalEarnings        float64 // completed bookings only
	ActiveCount          int64   // pending + accepted
	TotalCount           int64
}

// ActiveStatuses bookings in these statuses occupy the vehicle's calendar
// and participate in the overlap check
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
}
