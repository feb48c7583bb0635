package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	refreshRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/refreshtoken"
	userRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/user"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

const testPhone = "+79990001122"

type fakeUsers struct {
	byPhone map[string]*domain.User
	nextID  int64
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.byPhone {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	u, ok := f.byPhone[phone]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.byPhone[user.Phone] = user
	return user, nil
}

type fakeOTP struct {
	sent      []string
	verifyErr error
}

func (f *fakeOTP) Send(_ context.Context, phone string) error {
	f.sent = append(f.sent, phone)
	return nil
}

func (f *fakeOTP) Verify(_ context.Context, _, _ string) error {
	return f.verifyErr
}

type fakeTokens struct {
	byHash map[string]*domain.RefreshToken
	nextID int64
}

func (f *fakeTokens) Create(_ context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	f.nextID++
	token.ID = f.nextID
	f.byHash[token.TokenHash] = token
	return token, nil
}

func (f *fakeTokens) GetByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	t, ok := f.byHash[hash]
	if !ok {
		return nil, refreshRepo.ErrTokenNotFound
	}
	return t, nil
}

func (f *fakeTokens) Delete(_ context.Context, id int64) error {
	for hash, t := range f.byHash {
		if t.ID == id {
			delete(f.byHash, hash)
			return nil
		}
	}
	return refreshRepo.ErrTokenNotFound
}

func (f *fakeTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var count int64
	for hash, t := range f.byHash {
		if t.ExpiresAt.Before(before) {
			delete(f.byHash, hash)
			count++
		}
	}
	return count, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newFixture() (*Service, *fakeUsers, *fakeOTP, *fakeTokens) {
	users := &fakeUsers{byPhone: map[string]*domain.User{}}
	otp := &fakeOTP{}
	tokens := &fakeTokens{byHash: map[string]*domain.RefreshToken{}}
	manager := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	svc := NewService(users, otp, tokens, manager, noopLogger{})
	return svc, users, otp, tokens
}

func TestService_SendOTP(t *testing.T) {
	svc, _, otp, _ := newFixture()

	err := svc.SendOTP(context.Background(), &models.SendOTPRequest{Phone: testPhone, Role: "renter"})
	require.NoError(t, err)
	assert.Equal(t, []string{testPhone}, otp.sent)
}

func TestService_SendOTP_InvalidRole(t *testing.T) {
	svc, _, _, _ := newFixture()

	err := svc.SendOTP(context.Background(), &models.SendOTPRequest{Phone: testPhone, Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestService_SendOTP_RoleMismatch(t *testing.T) {
	svc, users, otp, _ := newFixture()
	users.byPhone[testPhone] = &domain.User{ID: 1, Phone: testPhone, Role: domain.RoleMerchant}

	err := svc.SendOTP(context.Background(), &models.SendOTPRequest{Phone: testPhone, Role: "renter"})
	assert.ErrorIs(t, err, ErrRoleMismatch)
	assert.Empty(t, otp.sent)
}

func TestService_VerifyOTP_CreatesAccount(t *testing.T) {
	svc, users, _, tokens := newFixture()

	pair, err := svc.VerifyOTP(context.Background(), &models.VerifyOTPRequest{
		Phone: testPhone,
		Code:  "123456",
		Role:  "renter",
	})
	require.NoError(t, err)

	created := users.byPhone[testPhone]
	require.NotNil(t, created)
	assert.True(t, created.PhoneVerified)
	assert.Equal(t, domain.RoleRenter, created.Role)
	assert.Equal(t, domain.LicenseNotSubmitted, created.LicenseStatus)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*60, pair.ExpiresInSeconds)
	require.NotNil(t, pair.User)
	assert.Equal(t, created.ID, pair.User.ID)

	// refresh-токен лежит в хранилище только в виде хэша
	_, stored := tokens.byHash[HashToken(pair.RefreshToken)]
	assert.True(t, stored)
	_, plain := tokens.byHash[pair.RefreshToken]
	assert.False(t, plain)
}

func TestService_VerifyOTP_WrongCode(t *testing.T) {
	svc, users, otp, _ := newFixture()
	otp.verifyErr = errors.New("invalid verification code")

	_, err := svc.VerifyOTP(context.Background(), &models.VerifyOTPRequest{
		Phone: testPhone,
		Code:  "000000",
		Role:  "renter",
	})
	require.Error(t, err)

	// аккаунт не создается, пока код не подтвержден
	assert.Empty(t, users.byPhone)
}

func TestService_VerifyOTP_ExistingUser(t *testing.T) {
	svc, users, _, _ := newFixture()
	users.byPhone[testPhone] = &domain.User{
		ID:            7,
		Phone:         testPhone,
		Role:          domain.RoleMerchant,
		LicenseStatus: domain.LicenseNotSubmitted,
	}

	pair, err := svc.VerifyOTP(context.Background(), &models.VerifyOTPRequest{
		Phone: testPhone,
		Code:  "123456",
		Role:  "merchant",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), pair.User.ID)

	claims, err := svc.manager.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "merchant", claims.Role)
}

func TestService_Refresh_RotatesToken(t *testing.T) {
	svc, users, _, tokens := newFixture()
	users.byPhone[testPhone] = &domain.User{ID: 7, Phone: testPhone, Role: domain.RoleRenter}

	pair, err := svc.VerifyOTP(context.Background(), &models.VerifyOTPRequest{
		Phone: testPhone,
		Code:  "123456",
		Role:  "renter",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// использованный токен отозван
	_, err = svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, stored := tokens.byHash[HashToken(rotated.RefreshToken)]
	assert.True(t, stored)
}

func TestService_Refresh_Expired(t *testing.T) {
	svc, users, _, tokens := newFixture()
	users.byPhone[testPhone] = &domain.User{ID: 7, Phone: testPhone, Role: domain.RoleRenter}

	tokens.byHash[HashToken("stale")] = &domain.RefreshToken{
		ID:        1,
		UserID:    7,
		TokenHash: HashToken("stale"),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "stale"})
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Empty(t, tokens.byHash)
}

func TestService_Logout(t *testing.T) {
	svc, users, _, tokens := newFixture()
	users.byPhone[testPhone] = &domain.User{ID: 7, Phone: testPhone, Role: domain.RoleRenter}

	pair, err := svc.VerifyOTP(context.Background(), &models.VerifyOTPRequest{
		Phone: testPhone,
		Code:  "123456",
		Role:  "renter",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: pair.RefreshToken}))
	assert.Empty(t, tokens.byHash)

	// повторный logout с тем же токеном не считается ошибкой
	assert.NoError(t, svc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: pair.RefreshToken}))
}

func TestTokenManager_ParseAccessToken(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Minute, time.Hour)
	user := &domain.User{ID: 42, Role: domain.RoleMerchant}

	token, err := manager.IssueAccessToken(user, time.Now())
	require.NoError(t, err)

	claims, err := manager.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "merchant", claims.Role)

	// чужая подпись отклоняется
	other := NewTokenManager("other-secret", time.Minute, time.Hour)
	_, err = other.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// просроченный токен отклоняется
	expired, err := manager.IssueAccessToken(user, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = manager.ParseAccessToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
