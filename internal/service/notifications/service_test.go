package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	"github.com/rentmyvroom/RMV-CoreService/pkg/ptr"
)

type fakeEmail struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	calls int
}

func (f *fakeEmail) Send(to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeMessenger struct {
	mu     sync.Mutex
	phones []string
	codes  []string
}

func (f *fakeMessenger) SendOTPMessage(_ context.Context, phone, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, phone)
	f.codes = append(f.codes, code)
	return "wamid.test", nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testBooking() (*domain.User, *domain.User, *domain.Booking, *domain.Vehicle) {
	merchant := &domain.User{
		ID:    1,
		Phone: "+79990001122",
		Role:  domain.RoleMerchant,
		Email: ptr.Ptr("merchant@example.com"),
	}
	renter := &domain.User{
		ID:        2,
		Phone:     "+79990003344",
		Role:      domain.RoleRenter,
		FirstName: ptr.Ptr("Иван"),
		Email:     ptr.Ptr("renter@example.com"),
	}
	booking := &domain.Booking{
		ID:         10,
		RenterID:   renter.ID,
		MerchantID: merchant.ID,
		VehicleID:  5,
		StartDate:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC),
		TotalPrice: 200,
	}
	vehicle := &domain.Vehicle{
		ID:         5,
		MerchantID: merchant.ID,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2022,
	}
	return merchant, renter, booking, vehicle
}

func TestService_NotifyNewBooking(t *testing.T) {
	email := &fakeEmail{}
	svc := NewService(email, &fakeMessenger{}, time.Second, noopLogger{})

	merchant, renter, booking, vehicle := testBooking()
	svc.NotifyNewBooking(merchant, renter, booking, vehicle)
	svc.Wait()

	require.Len(t, email.sent, 1)
	assert.Equal(t, "merchant@example.com", email.sent[0])
}

func TestService_SkipsRecipientWithoutEmail(t *testing.T) {
	email := &fakeEmail{}
	svc := NewService(email, &fakeMessenger{}, time.Second, noopLogger{})

	merchant, renter, booking, vehicle := testBooking()
	renter.Email = nil
	svc.NotifyBookingAccepted(renter, booking, vehicle)
	_ = merchant
	svc.Wait()

	assert.Equal(t, 0, email.calls)
}

func TestService_DeliveryFailureIsSwallowed(t *testing.T) {
	email := &fakeEmail{fail: true}
	svc := NewService(email, &fakeMessenger{}, time.Second, noopLogger{})

	merchant, renter, booking, vehicle := testBooking()
	svc.NotifyBookingCancelled(merchant, renter, booking, vehicle)
	svc.Wait()

	// сбой доставки не должен никак проявиться для вызывающей стороны
	assert.Equal(t, 1, email.calls)
	assert.Empty(t, email.sent)
}

func TestService_DeliverOTP(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := NewService(&fakeEmail{}, messenger, time.Second, noopLogger{})

	svc.DeliverOTP("+79990003344", "123456")
	svc.Wait()

	require.Len(t, messenger.phones, 1)
	assert.Equal(t, "+79990003344", messenger.phones[0])
	assert.Equal(t, "123456", messenger.codes[0])
}

func TestService_NotifyLicenseApproved(t *testing.T) {
	email := &fakeEmail{}
	svc := NewService(email, &fakeMessenger{}, time.Second, noopLogger{})

	_, renter, _, _ := testBooking()
	svc.NotifyLicenseApproved(renter)
	svc.Wait()

	require.Len(t, email.sent, 1)
	assert.Equal(t, "renter@example.com", email.sent[0])
}
