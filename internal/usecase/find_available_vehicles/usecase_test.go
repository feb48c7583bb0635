package find_available_vehicles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

type fakeVehicles struct {
	available []*domain.Vehicle
}

func (f *fakeVehicles) FindAvailable(_ context.Context, _, _ time.Time) ([]*domain.Vehicle, error) {
	return f.available, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := NewUseCase(&fakeVehicles{available: []*domain.Vehicle{
		{ID: 1, MerchantID: 7, Make: "Toyota", Model: "Camry", Year: 2022, PricePerDay: 100},
		{ID: 2, MerchantID: 7, Make: "Kia", Model: "Rio", Year: 2021, PricePerDay: 60},
	}}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: now.Add(24 * time.Hour),
		EndDate:   now.Add(74 * time.Hour), // 50 часов - оплачиваются 3 суток
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.RentalDays)
	require.Len(t, resp.Vehicles, 2)
	assert.Equal(t, 300.0, resp.Vehicles[0].EstimatedFee)
	assert.Equal(t, 180.0, resp.Vehicles[1].EstimatedFee)
}

func TestUseCase_Execute_InvalidDates(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := NewUseCase(&fakeVehicles{}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}

	_, err := uc.Execute(context.Background(), &Request{
		StartDate: now.Add(48 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = uc.Execute(context.Background(), &Request{
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
