package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	bookingRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/booking"
	userRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/user"
	vehicleRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/vehicle"
	"github.com/rentmyvroom/RMV-CoreService/pkg/ptr"
)

const (
	merchantID = int64(1)
	renterID   = int64(2)
	vehicleID  = int64(5)
)

type fakeBookings struct {
	existing []*domain.Booking
	created  *domain.Booking
}

func (f *fakeBookings) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = 10
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.created = booking
	f.existing = append(f.existing, booking)
	return booking, nil
}

func (f *fakeBookings) FindOverlapping(_ context.Context, vid int64, start, end time.Time, statuses []domain.BookingStatus) (*domain.Booking, error) {
	for _, b := range f.existing {
		if b.VehicleID != vid || !b.Overlaps(start, end) {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				return b, nil
			}
		}
	}
	return nil, bookingRepo.ErrNoOverlap
}

type fakeUsers struct {
	users map[int64]*domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

type fakeVehicles struct {
	vehicles map[int64]*domain.Vehicle
}

func (f *fakeVehicles) GetByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, vehicleRepo.ErrVehicleNotFound
	}
	return v, nil
}

// passthroughTxManager выполняет функцию без настоящей транзакции
type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	newBookings int
}

func (f *fakeNotifier) NotifyNewBooking(*domain.User, *domain.User, *domain.Booking, *domain.Vehicle) {
	f.newBookings++
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc       *UseCase
	bookings *fakeBookings
	users    *fakeUsers
	vehicles *fakeVehicles
	tx       *passthroughTxManager
	notifier *fakeNotifier
	now      time.Time
}

func newFixture() *fixture {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookings := &fakeBookings{}
	users := &fakeUsers{users: map[int64]*domain.User{
		merchantID: {ID: merchantID, Phone: "+79990001122", Role: domain.RoleMerchant},
		renterID: {
			ID:            renterID,
			Phone:         "+79990003344",
			Role:          domain.RoleRenter,
			LicenseStatus: domain.LicenseApproved,
		},
	}}
	vehicles := &fakeVehicles{vehicles: map[int64]*domain.Vehicle{
		vehicleID: {
			ID:          vehicleID,
			MerchantID:  merchantID,
			Make:        "Toyota",
			Model:       "Camry",
			Year:        2022,
			PricePerDay: 100,
			IsAvailable: true,
		},
	}}
	tx := &passthroughTxManager{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(bookings, users, vehicles, tx, notifier, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &fixture{uc: uc, bookings: bookings, users: users, vehicles: vehicles, tx: tx, notifier: notifier, now: now}
}

func (f *fixture) request() *Request {
	return &Request{
		RenterID:  renterID,
		VehicleID: vehicleID,
		StartDate: f.now.Add(24 * time.Hour),
		EndDate:   f.now.Add(72 * time.Hour),
	}
}

func TestUseCase_Execute(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, merchantID, resp.MerchantID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 2, resp.RentalDays)
	assert.Equal(t, 200.0, resp.TotalPrice)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, 1, f.notifier.newBookings)
}

func TestUseCase_Execute_PartialDayRoundsUp(t *testing.T) {
	f := newFixture()

	req := f.request()
	req.EndDate = req.StartDate.Add(26 * time.Hour)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.RentalDays)
	assert.Equal(t, 200.0, resp.TotalPrice)
}

func TestUseCase_Execute_RenterNotFound(t *testing.T) {
	f := newFixture()

	req := f.request()
	req.RenterID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrRenterNotFound)
}

func TestUseCase_Execute_MerchantCannotBook(t *testing.T) {
	f := newFixture()

	req := f.request()
	req.RenterID = merchantID

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotARenter)
}

func TestUseCase_Execute_LicenseNotApproved(t *testing.T) {
	f := newFixture()
	f.users.users[renterID].LicenseStatus = domain.LicensePending

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrLicenseNotApproved)
}

func TestUseCase_Execute_VehicleNotFound(t *testing.T) {
	f := newFixture()

	req := f.request()
	req.VehicleID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestUseCase_Execute_VehicleUnpublished(t *testing.T) {
	f := newFixture()
	f.vehicles.vehicles[vehicleID].IsAvailable = false

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
}

func TestUseCase_Execute_InvalidDates(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", f.now.Add(72 * time.Hour), f.now.Add(24 * time.Hour)},
		{"end equals start", f.now.Add(24 * time.Hour), f.now.Add(24 * time.Hour)},
		{"start in the past", f.now.Add(-24 * time.Hour), f.now.Add(24 * time.Hour)},
		{"start equals now", f.now, f.now.Add(24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			req.StartDate = tt.start
			req.EndDate = tt.end

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidDates)
		})
	}
}

func TestUseCase_Execute_NotesTooLong(t *testing.T) {
	f := newFixture()

	long := make([]byte, domain.MaxNotesLength+1)
	for i := range long {
		long[i] = 'x'
	}

	req := f.request()
	req.Notes = ptr.Ptr(string(long))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_DatesConflict(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	// второй запрос на пересекающийся интервал
	req := f.request()
	req.StartDate = f.now.Add(48 * time.Hour)
	req.EndDate = f.now.Add(96 * time.Hour)

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDatesConflict)
}

func TestUseCase_Execute_TouchingIntervalsAllowed(t *testing.T) {
	f := newFixture()

	first := f.request()
	resp, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// следующий интервал начинается ровно там, где закончился предыдущий
	second := f.request()
	second.StartDate = first.EndDate
	second.EndDate = first.EndDate.Add(48 * time.Hour)

	resp2, err := f.uc.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.NotEqual(t, resp.StartDate, resp2.StartDate)
}

func TestUseCase_Execute_CancelledBookingFreesDates(t *testing.T) {
	f := newFixture()

	first := f.request()
	_, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	f.bookings.created.Status = domain.StatusCancelled

	_, err = f.uc.Execute(context.Background(), f.request())
	assert.NoError(t, err)
}
