package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	refreshRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/refreshtoken"
	userRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/user"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/auth/models"
)

// Service сервис входа по телефону. Пароль не используется: владение
// номером подтверждается одноразовым кодом, после чего выдается пара
// access JWT + непрозрачный refresh-токен. Refresh-токены одноразовые,
// при обновлении старый токен отзывается.
type Service struct {
	users   UserRepository
	otp     OTPService
	tokens  RefreshTokenRepository
	manager *TokenManager
	logger  Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(
	users UserRepository,
	otp OTPService,
	tokens RefreshTokenRepository,
	manager *TokenManager,
	logger Logger,
) *Service {
	return &Service{
		users:   users,
		otp:     otp,
		tokens:  tokens,
		manager: manager,
		logger:  logger,
	}
}

// SendOTP отправляет код подтверждения на телефон.
// Успешный ответ не раскрывает, зарегистрирован ли номер: единственное
// исключение - номер уже занят другой ролью.
func (s *Service) SendOTP(ctx context.Context, req *models.SendOTPRequest) error {
	role, err := parseRole(req.Role)
	if err != nil {
		return err
	}

	if err := s.checkRoleConflict(ctx, req.Phone, role, "SendOTP"); err != nil {
		return err
	}

	return s.otp.Send(ctx, req.Phone)
}

// VerifyOTP проверяет код и выполняет вход. Для нового номера создается
// аккаунт с запрошенной ролью и подтвержденным телефоном.
func (s *Service) VerifyOTP(ctx context.Context, req *models.VerifyOTPRequest) (*models.TokenPairResponse, error) {
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if err := s.otp.Verify(ctx, req.Phone, req.Code); err != nil {
		return nil, err
	}

	user, err := s.users.GetByPhone(ctx, req.Phone)
	if err != nil {
		if !errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Error("VerifyOTP: repository error for phone=%s: %v", req.Phone, err)
			return nil, fmt.Errorf("%w: VerifyOTP - repository error: %v", ErrInternal, err)
		}

		user, err = s.users.Create(ctx, &domain.User{
			Phone:         req.Phone,
			PhoneVerified: true,
			Role:          role,
			LicenseStatus: domain.LicenseNotSubmitted,
		})
		if err != nil {
			s.logger.Error("VerifyOTP: failed to create user for phone=%s: %v", req.Phone, err)
			return nil, fmt.Errorf("%w: VerifyOTP - create user: %v", ErrInternal, err)
		}
		s.logger.Info("VerifyOTP: new %s account id=%d created", role, user.ID)
	}

	if user.Role != role {
		s.logger.Warn("VerifyOTP: role mismatch for user id=%d: have=%s, want=%s", user.ID, user.Role, role)
		return nil, ErrRoleMismatch
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	pair.User = models.FromDomainUser(user)

	s.logger.Info("VerifyOTP: user id=%d logged in", user.ID)
	return pair, nil
}

// Refresh обменивает refresh-токен на новую пару. Использованный токен
// отзывается: повторное предъявление отклоняется.
func (s *Service) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPairResponse, error) {
	record, err := s.tokens.GetByHash(ctx, HashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, refreshRepo.ErrTokenNotFound) {
			s.logger.Warn("Refresh: unknown refresh token")
			return nil, ErrInvalidToken
		}
		s.logger.Error("Refresh: repository error: %v", err)
		return nil, fmt.Errorf("%w: Refresh - repository error: %v", ErrInternal, err)
	}

	if record.IsExpired(time.Now()) {
		// просроченный токен сразу убираем из хранилища
		if err := s.tokens.Delete(ctx, record.ID); err != nil {
			s.logger.Warn("Refresh: failed to delete expired token id=%d: %v", record.ID, err)
		}
		return nil, ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		s.logger.Error("Refresh: failed to load user id=%d: %v", record.UserID, err)
		return nil, fmt.Errorf("%w: Refresh - load user: %v", ErrInternal, err)
	}

	if err := s.tokens.Delete(ctx, record.ID); err != nil {
		s.logger.Error("Refresh: failed to revoke token id=%d: %v", record.ID, err)
		return nil, fmt.Errorf("%w: Refresh - revoke token: %v", ErrInternal, err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refresh: rotated token for user id=%d", user.ID)
	return pair, nil
}

// Logout отзывает refresh-токен. Неизвестный токен не считается ошибкой.
func (s *Service) Logout(ctx context.Context, req *models.LogoutRequest) error {
	record, err := s.tokens.GetByHash(ctx, HashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, refreshRepo.ErrTokenNotFound) {
			return nil
		}
		s.logger.Error("Logout: repository error: %v", err)
		return fmt.Errorf("%w: Logout - repository error: %v", ErrInternal, err)
	}

	if err := s.tokens.Delete(ctx, record.ID); err != nil {
		s.logger.Error("Logout: failed to delete token id=%d: %v", record.ID, err)
		return fmt.Errorf("%w: Logout - delete token: %v", ErrInternal, err)
	}

	s.logger.Info("Logout: user id=%d session revoked", record.UserID)
	return nil
}

// SweepExpiredTokens удаляет просроченные refresh-токены. Вызывается по расписанию.
func (s *Service) SweepExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("SweepExpiredTokens: repository error: %v", err)
		return 0, fmt.Errorf("%w: SweepExpiredTokens - repository error: %v", ErrInternal, err)
	}

	if count > 0 {
		s.logger.Info("SweepExpiredTokens: removed %d expired tokens", count)
	}
	return count, nil
}

// Вспомогательные методы

// checkRoleConflict возвращает ErrRoleMismatch, если номер уже занят
// аккаунтом с другой ролью
func (s *Service) checkRoleConflict(ctx context.Context, phone string, role domain.Role, name string) error {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil
		}
		s.logger.Error("%s: repository error for phone lookup: %v", name, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, name, err)
	}

	if user.Role != role {
		s.logger.Warn("%s: role mismatch for user id=%d: have=%s, want=%s", name, user.ID, user.Role, role)
		return ErrRoleMismatch
	}

	return nil
}

// issuePair выпускает access JWT и сохраняет новый refresh-токен
func (s *Service) issuePair(ctx context.Context, user *domain.User) (*models.TokenPairResponse, error) {
	now := time.Now()

	access, err := s.manager.IssueAccessToken(user, now)
	if err != nil {
		s.logger.Error("issuePair: failed to sign access token for user id=%d: %v", user.ID, err)
		return nil, err
	}

	refresh, record := s.manager.NewRefreshToken(user.ID, now)

	if _, err := s.tokens.Create(ctx, record); err != nil {
		s.logger.Error("issuePair: failed to store refresh token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: issuePair - store refresh token: %v", ErrInternal, err)
	}

	return &models.TokenPairResponse{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresInSeconds: int(s.manager.AccessTTL().Seconds()),
	}, nil
}

func parseRole(raw string) (domain.Role, error) {
	switch domain.Role(raw) {
	case domain.RoleRenter, domain.RoleMerchant:
		return domain.Role(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}
