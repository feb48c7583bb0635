package otp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	otpRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/otp"
)

const testPhone = "+79990001122"

type fakeOTPRepo struct {
	active     *domain.OneTimeCode
	mostRecent *domain.OneTimeCode
	created    *domain.OneTimeCode

	incremented    bool
	incrementErr   error
	markedVerified bool
	deleted        bool
	sweepCount     int64
}

func (f *fakeOTPRepo) Create(_ context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
	code.ID = 1
	f.created = code
	return code, nil
}

func (f *fakeOTPRepo) FindActive(_ context.Context, _ string, _ time.Time) (*domain.OneTimeCode, error) {
	if f.active == nil {
		return nil, otpRepo.ErrCodeNotFound
	}
	return f.active, nil
}

func (f *fakeOTPRepo) FindMostRecent(_ context.Context, _ string) (*domain.OneTimeCode, error) {
	if f.mostRecent == nil {
		return nil, otpRepo.ErrCodeNotFound
	}
	return f.mostRecent, nil
}

func (f *fakeOTPRepo) IncrementAttempts(_ context.Context, _ int64, _ int) (int, error) {
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.incremented = true
	f.active.Attempts++
	return f.active.Attempts, nil
}

func (f *fakeOTPRepo) MarkVerified(_ context.Context, _ int64) error {
	f.markedVerified = true
	return nil
}

func (f *fakeOTPRepo) Delete(_ context.Context, _ int64) error {
	f.deleted = true
	return nil
}

func (f *fakeOTPRepo) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return f.sweepCount, nil
}

type fakePolicy struct {
	expiryMinutes   int
	maxAttempts     int
	cooldownSeconds int
}

func (f *fakePolicy) OTPExpiryMinutes(context.Context) int         { return f.expiryMinutes }
func (f *fakePolicy) OTPMaxAttempts(context.Context) int           { return f.maxAttempts }
func (f *fakePolicy) OTPResendCooldownSeconds(context.Context) int { return f.cooldownSeconds }

type fakeNotifier struct {
	phones []string
	codes  []string
}

func (f *fakeNotifier) DeliverOTP(phone, code string) {
	f.phones = append(f.phones, phone)
	f.codes = append(f.codes, code)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func defaultPolicy() *fakePolicy {
	return &fakePolicy{expiryMinutes: 5, maxAttempts: 3, cooldownSeconds: 30}
}

func sha256hex(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func TestService_Send(t *testing.T) {
	repo := &fakeOTPRepo{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, defaultPolicy(), notifier, NewRandomGenerator(), noopLogger{})

	err := svc.Send(context.Background(), testPhone)
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, testPhone, repo.created.Phone)
	assert.Equal(t, 0, repo.created.Attempts)
	assert.False(t, repo.created.Verified)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), repo.created.ExpiresAt, 2*time.Second)

	require.Len(t, notifier.codes, 1)
	code := notifier.codes[0]
	assert.Len(t, code, domain.DefaultOTPLength)

	// в базе лежит только хэш, не код
	assert.NotEqual(t, code, repo.created.CodeHash)
	assert.Equal(t, sha256hex(code), repo.created.CodeHash)
}

func TestService_Send_InvalidPhone(t *testing.T) {
	svc := NewService(&fakeOTPRepo{}, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Send(context.Background(), "89990001122")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestService_Send_Cooldown(t *testing.T) {
	repo := &fakeOTPRepo{
		mostRecent: &domain.OneTimeCode{
			Phone:      testPhone,
			LastSentAt: time.Now().Add(-10 * time.Second),
		},
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Send(context.Background(), testPhone)
	require.ErrorIs(t, err, ErrRateLimited)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Greater(t, rateErr.RetryAfterSeconds, 0)
	assert.LessOrEqual(t, rateErr.RetryAfterSeconds, 20)
}

func TestService_Send_CooldownElapsed(t *testing.T) {
	repo := &fakeOTPRepo{
		mostRecent: &domain.OneTimeCode{
			Phone:      testPhone,
			LastSentAt: time.Now().Add(-31 * time.Second),
		},
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Send(context.Background(), testPhone)
	assert.NoError(t, err)
}

func TestService_Send_CooldownWithInjectedClock(t *testing.T) {
	sent := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeOTPRepo{
		mostRecent: &domain.OneTimeCode{Phone: testPhone, LastSentAt: sent},
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	// через 10 секунд после отправки остаток cooldown ровно 20 секунд
	svc.timeProvider = &fixedTimeProvider{now: sent.Add(10 * time.Second)}

	err := svc.Send(context.Background(), testPhone)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 20, rateErr.RetryAfterSeconds)

	// ровно на границе cooldown отправка уже разрешена
	svc.timeProvider = &fixedTimeProvider{now: sent.Add(30 * time.Second)}
	assert.NoError(t, svc.Send(context.Background(), testPhone))
}

func TestService_Send_FixedGenerator(t *testing.T) {
	// тестовый режим: код фиксирован, cooldown и доставка пропускаются
	repo := &fakeOTPRepo{
		mostRecent: &domain.OneTimeCode{
			Phone:      testPhone,
			LastSentAt: time.Now(),
		},
	}
	notifier := &fakeNotifier{}
	svc := NewService(repo, defaultPolicy(), notifier, NewFixedGenerator("123456"), noopLogger{})

	err := svc.Send(context.Background(), testPhone)
	require.NoError(t, err)

	assert.Empty(t, notifier.codes)
	assert.Equal(t, sha256hex("123456"), repo.created.CodeHash)
}

func TestService_Verify(t *testing.T) {
	repo := &fakeOTPRepo{
		active: &domain.OneTimeCode{
			ID:        1,
			Phone:     testPhone,
			CodeHash:  sha256hex("123456"),
			ExpiresAt: time.Now().Add(time.Minute),
		},
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Verify(context.Background(), testPhone, "123456")
	require.NoError(t, err)

	assert.True(t, repo.incremented)
	assert.True(t, repo.markedVerified)
	assert.True(t, repo.deleted)
}

func TestService_Verify_WrongCode(t *testing.T) {
	repo := &fakeOTPRepo{
		active: &domain.OneTimeCode{
			ID:        1,
			Phone:     testPhone,
			CodeHash:  sha256hex("123456"),
			ExpiresAt: time.Now().Add(time.Minute),
		},
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Verify(context.Background(), testPhone, "654321")
	assert.ErrorIs(t, err, ErrInvalidCode)

	// попытка тратится и при неверном коде
	assert.True(t, repo.incremented)
	assert.False(t, repo.markedVerified)
}

func TestService_Verify_NoActiveCode(t *testing.T) {
	svc := NewService(&fakeOTPRepo{}, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Verify(context.Background(), testPhone, "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestService_Verify_AttemptsExhausted(t *testing.T) {
	repo := &fakeOTPRepo{
		active: &domain.OneTimeCode{
			ID:       1,
			Phone:    testPhone,
			CodeHash: sha256hex("123456"),
			Attempts: 3,
		},
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Verify(context.Background(), testPhone, "123456")
	assert.ErrorIs(t, err, ErrMaxAttemptsExceeded)
	assert.False(t, repo.incremented)
}

func TestService_Verify_ConcurrentAttemptsExhausted(t *testing.T) {
	// параллельный verify успел исчерпать счетчик между чтением и UPDATE
	repo := &fakeOTPRepo{
		active: &domain.OneTimeCode{
			ID:       1,
			Phone:    testPhone,
			CodeHash: sha256hex("123456"),
			Attempts: 2,
		},
		incrementErr: otpRepo.ErrAttemptsExhausted,
	}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	err := svc.Verify(context.Background(), testPhone, "123456")
	assert.ErrorIs(t, err, ErrMaxAttemptsExceeded)
}

func TestService_SweepExpired(t *testing.T) {
	repo := &fakeOTPRepo{sweepCount: 7}
	svc := NewService(repo, defaultPolicy(), &fakeNotifier{}, NewRandomGenerator(), noopLogger{})

	count, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestRandomGenerator(t *testing.T) {
	gen := NewRandomGenerator()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, domain.DefaultOTPLength)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 кодов подряд не должны быть одинаковыми
	assert.Greater(t, len(seen), 1)
}
