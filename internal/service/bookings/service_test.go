package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	bookingRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/booking"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"
	"github.com/rentmyvroom/RMV-CoreService/pkg/ptr"
)

const (
	merchantID = int64(1)
	renterID   = int64(2)
	vehicleID  = int64(5)
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	stats    *domain.MerchantStats

	conflictOnUpdate bool
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByRenterID(_ context.Context, renter int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.RenterID == renter && (status == nil || b.Status == *status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByMerchantID(_ context.Context, merchant int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.MerchantID == merchant && (status == nil || b.Status == *status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, expected, next domain.BookingStatus, upd bookingRepo.StatusUpdate) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != expected || f.conflictOnUpdate {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = next
	if upd.MerchantNotes != nil {
		b.MerchantNotes = upd.MerchantNotes
	}
	b.AcceptedAt = upd.AcceptedAt
	b.RejectedAt = upd.RejectedAt
	b.CompletedAt = upd.CompletedAt
	b.CancelledAt = upd.CancelledAt
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetMerchantStats(_ context.Context, _ int64, _, _ time.Time) (*domain.MerchantStats, error) {
	return f.stats, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return u, nil
}

type fakeVehicleRepo struct {
	vehicles map[int64]*domain.Vehicle
}

func (f *fakeVehicleRepo) GetByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return v, nil
}

type fakePolicy struct {
	windowHours int
}

func (f *fakePolicy) CancellationWindowHours(context.Context) int { return f.windowHours }

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type fakeNotifier struct {
	accepted  int
	rejected  int
	completed int
	cancelled int
}

func (f *fakeNotifier) NotifyBookingAccepted(*domain.User, *domain.Booking, *domain.Vehicle) {
	f.accepted++
}

func (f *fakeNotifier) NotifyBookingRejected(*domain.User, *domain.Booking, *domain.Vehicle) {
	f.rejected++
}

func (f *fakeNotifier) NotifyBookingCompleted(*domain.User, *domain.Booking, *domain.Vehicle) {
	f.completed++
}

func (f *fakeNotifier) NotifyBookingCancelled(*domain.User, *domain.User, *domain.Booking, *domain.Vehicle) {
	f.cancelled++
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newFixture(status domain.BookingStatus, start time.Time) (*Service, *fakeBookingRepo, *fakeNotifier) {
	repo := &fakeBookingRepo{
		bookings: map[int64]*domain.Booking{
			10: {
				ID:         10,
				RenterID:   renterID,
				MerchantID: merchantID,
				VehicleID:  vehicleID,
				StartDate:  start,
				EndDate:    start.Add(48 * time.Hour),
				Status:     status,
				TotalPrice: 200,
			},
		},
	}
	users := &fakeUserRepo{users: map[int64]*domain.User{
		merchantID: {ID: merchantID, Phone: "+79990001122", Role: domain.RoleMerchant},
		renterID:   {ID: renterID, Phone: "+79990003344", Role: domain.RoleRenter},
	}}
	vehicles := &fakeVehicleRepo{vehicles: map[int64]*domain.Vehicle{
		vehicleID: {ID: vehicleID, MerchantID: merchantID, Make: "Toyota", Model: "Camry", Year: 2022},
	}}
	notifier := &fakeNotifier{}

	svc := NewService(repo, users, vehicles, &fakePolicy{windowHours: 4}, notifier, noopLogger{})
	return svc, repo, notifier
}

func futureStart() time.Time {
	return time.Now().Add(72 * time.Hour)
}

func TestService_Accept(t *testing.T) {
	svc, repo, notifier := newFixture(domain.StatusPending, futureStart())

	resp, err := svc.Accept(context.Background(), 10, &models.TransitionRequest{
		MerchantID:    merchantID,
		MerchantNotes: ptr.Ptr("ключи у консьержа"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusAccepted), resp.Status)
	assert.NotNil(t, resp.AcceptedAt)
	assert.Equal(t, domain.StatusAccepted, repo.bookings[10].Status)
	assert.Equal(t, 1, notifier.accepted)
}

func TestService_Accept_WrongMerchant(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusPending, futureStart())

	_, err := svc.Accept(context.Background(), 10, &models.TransitionRequest{MerchantID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Accept_WrongState(t *testing.T) {
	svc, _, notifier := newFixture(domain.StatusAccepted, futureStart())

	_, err := svc.Accept(context.Background(), 10, &models.TransitionRequest{MerchantID: merchantID})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, notifier.accepted)
}

func TestService_Accept_NotFound(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusPending, futureStart())

	_, err := svc.Accept(context.Background(), 404, &models.TransitionRequest{MerchantID: merchantID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Accept_LostRace(t *testing.T) {
	// условный UPDATE не затронул строк, хотя чтение видело pending
	svc, repo, _ := newFixture(domain.StatusPending, futureStart())
	repo.conflictOnUpdate = true

	_, err := svc.Accept(context.Background(), 10, &models.TransitionRequest{MerchantID: merchantID})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_Reject(t *testing.T) {
	svc, repo, notifier := newFixture(domain.StatusPending, futureStart())

	resp, err := svc.Reject(context.Background(), 10, &models.TransitionRequest{MerchantID: merchantID})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	assert.Equal(t, domain.StatusRejected, repo.bookings[10].Status)
	assert.Equal(t, 1, notifier.rejected)
}

func TestService_Complete(t *testing.T) {
	svc, _, notifier := newFixture(domain.StatusAccepted, futureStart())

	resp, err := svc.Complete(context.Background(), 10, &models.TransitionRequest{MerchantID: merchantID})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, 1, notifier.completed)
}

func TestService_Complete_FromPending(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusPending, futureStart())

	_, err := svc.Complete(context.Background(), 10, &models.TransitionRequest{MerchantID: merchantID})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_Cancel(t *testing.T) {
	svc, repo, notifier := newFixture(domain.StatusAccepted, futureStart())

	resp, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: renterID})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[10].Status)
	assert.Equal(t, 1, notifier.cancelled)
}

func TestService_Cancel_WindowExpired(t *testing.T) {
	// до начала аренды 2 часа при окне в 4 часа
	svc, _, _ := newFixture(domain.StatusPending, time.Now().Add(2*time.Hour))

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: renterID})
	require.ErrorIs(t, err, ErrCancellationWindowExpired)

	var windowErr *CancellationWindowError
	require.ErrorAs(t, err, &windowErr)
	assert.Equal(t, 4, windowErr.WindowHours)
}

func TestService_Cancel_ExactlyOnBoundary(t *testing.T) {
	// ровно 4 часа до начала - отмена еще разрешена
	svc, _, _ := newFixture(domain.StatusPending, time.Now().Add(4*time.Hour+time.Second))

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: renterID})
	assert.NoError(t, err)
}

func TestService_Cancel_WindowWithInjectedClock(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	// ровно 4 часа до начала - отмена разрешена
	svc, repo, _ := newFixture(domain.StatusPending, now.Add(4*time.Hour))
	svc.timeProvider = &fixedTimeProvider{now: now}

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: renterID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[10].Status)

	// на секунду ближе к началу - окно уже закрыто
	svc, _, _ = newFixture(domain.StatusPending, now.Add(4*time.Hour-time.Second))
	svc.timeProvider = &fixedTimeProvider{now: now}

	_, err = svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: renterID})
	require.ErrorIs(t, err, ErrCancellationWindowExpired)
}

func TestService_Cancel_WrongRenter(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusPending, futureStart())

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel_TerminalStatus(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusCompleted, futureStart())

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{RenterID: renterID})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_GetByID_Access(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusPending, futureStart())

	_, err := svc.GetByID(context.Background(), 10, renterID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 10, merchantID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 10, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Lists_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newFixture(domain.StatusPending, futureStart())

	_, err := svc.GetRenterBookings(context.Background(), &models.ListBookingsRequest{
		OwnerID: renterID,
		Status:  ptr.Ptr("paused"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetMerchantBookings(context.Background(), &models.ListBookingsRequest{
		OwnerID: merchantID,
		Status:  ptr.Ptr("paused"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_MerchantStats(t *testing.T) {
	svc, repo, _ := newFixture(domain.StatusPending, futureStart())
	repo.stats = &domain.MerchantStats{
		CurrentMonthEarnings: 400,
		TotalEarnings:        1200,
		ActiveCount:          2,
		TotalCount:           8,
	}

	resp, err := svc.MerchantStats(context.Background(), merchantID)
	require.NoError(t, err)

	assert.Equal(t, 400.0, resp.CurrentMonthEarnings)
	assert.Equal(t, 1200.0, resp.TotalEarnings)
	assert.Equal(t, int64(2), resp.ActiveCount)
	assert.Equal(t, int64(8), resp.TotalCount)
}
