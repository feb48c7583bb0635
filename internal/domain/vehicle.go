package domain

import "time"

// Vehicle represents a listed vehicle. Read-only input for the booking core;
// listing CRUD is outside this service.
type Vehicle struct {
	ID           int64
	MerchantID   int64
	Make         string
	Model        string
	Year         int
	LicensePlate string
	PricePerDay  float64
	IsAvailable  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
