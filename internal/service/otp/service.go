package otp

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	otpRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/otp"
)

// Service движок подтверждения телефона одноразовыми кодами.
// В базе хранится только SHA-256 хэш кода; политики (время жизни, лимит
// попыток, cooldown) читаются из системной конфигурации при каждом вызове.
type Service struct {
	repo         OTPRepository
	policy       PolicySource
	notifier     Notifier
	generator    CodeGenerator
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр движка одноразовых кодов
func NewService(
	repo OTPRepository,
	policy PolicySource,
	notifier Notifier,
	generator CodeGenerator,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		policy:       policy,
		notifier:     notifier,
		generator:    generator,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Send генерирует и отправляет новый код подтверждения на телефон.
// Между отправками на один номер действует cooldown; при его нарушении
// возвращается RateLimitError с количеством секунд до следующей попытки.
func (s *Service) Send(ctx context.Context, phone string) error {
	if !domain.E164Regex.MatchString(phone) {
		s.logger.Warn("Send: phone is not E.164: %s", maskPhone(phone))
		return ErrInvalidPhone
	}

	now := s.timeProvider.Now()

	// В тестовом режиме cooldown не применяется
	if !s.generator.Fixed() {
		if err := s.checkCooldown(ctx, phone, now); err != nil {
			return err
		}
	}

	code, err := s.generator.Generate()
	if err != nil {
		s.logger.Error("Send: code generation failed for phone=%s: %v", maskPhone(phone), err)
		return fmt.Errorf("%w: Send - generate code: %v", ErrInternal, err)
	}

	expiry := time.Duration(s.policy.OTPExpiryMinutes(ctx)) * time.Minute

	record := &domain.OneTimeCode{
		Phone:      phone,
		CodeHash:   hashCode(code),
		ExpiresAt:  now.Add(expiry),
		Verified:   false,
		Attempts:   0,
		LastSentAt: now,
	}

	if _, err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Send: repository error for phone=%s: %v", maskPhone(phone), err)
		return fmt.Errorf("%w: Send - repository error: %v", ErrInternal, err)
	}

	// В тестовом режиме код известен заранее, доставка не нужна
	if !s.generator.Fixed() {
		s.notifier.DeliverOTP(phone, code)
	}

	s.logger.Info("Send: code issued for phone=%s, expires_at=%s", maskPhone(phone), record.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Verify проверяет код подтверждения. Счетчик попыток увеличивается
// атомарно до сравнения, поэтому параллельные запросы не могут получить
// больше разрешенного числа попыток. Успешно подтвержденный код удаляется.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	now := s.timeProvider.Now()

	record, err := s.repo.FindActive(ctx, phone, now)
	if err != nil {
		if errors.Is(err, otpRepo.ErrCodeNotFound) {
			s.logger.Warn("Verify: no active code for phone=%s", maskPhone(phone))
			return ErrCodeExpired
		}
		s.logger.Error("Verify: repository error for phone=%s: %v", maskPhone(phone), err)
		return fmt.Errorf("%w: Verify - repository error: %v", ErrInternal, err)
	}

	maxAttempts := s.policy.OTPMaxAttempts(ctx)

	if record.Attempts >= maxAttempts {
		s.logger.Warn("Verify: attempts exhausted for phone=%s", maskPhone(phone))
		return ErrMaxAttemptsExceeded
	}

	attempts, err := s.repo.IncrementAttempts(ctx, record.ID, maxAttempts)
	if err != nil {
		if errors.Is(err, otpRepo.ErrAttemptsExhausted) {
			s.logger.Warn("Verify: attempts exhausted (concurrent) for phone=%s", maskPhone(phone))
			return ErrMaxAttemptsExceeded
		}
		s.logger.Error("Verify: failed to increment attempts for phone=%s: %v", maskPhone(phone), err)
		return fmt.Errorf("%w: Verify - increment attempts: %v", ErrInternal, err)
	}

	if subtle.ConstantTimeCompare([]byte(hashCode(code)), []byte(record.CodeHash)) != 1 {
		s.logger.Warn("Verify: wrong code for phone=%s, attempts=%d/%d", maskPhone(phone), attempts, maxAttempts)
		return ErrInvalidCode
	}

	if err := s.repo.MarkVerified(ctx, record.ID); err != nil {
		s.logger.Error("Verify: failed to mark code verified for phone=%s: %v", maskPhone(phone), err)
		return fmt.Errorf("%w: Verify - mark verified: %v", ErrInternal, err)
	}

	// Подтвержденный код больше не нужен, сбой удаления не критичен
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		s.logger.Warn("Verify: failed to delete verified code id=%d: %v", record.ID, err)
	}

	s.logger.Info("Verify: phone=%s verified", maskPhone(phone))
	return nil
}

// SweepExpired удаляет все просроченные коды. Вызывается по расписанию.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("SweepExpired: repository error: %v", err)
		return 0, fmt.Errorf("%w: SweepExpired - repository error: %v", ErrInternal, err)
	}

	if count > 0 {
		s.logger.Info("SweepExpired: removed %d expired codes", count)
	}
	return count, nil
}

// checkCooldown возвращает RateLimitError, если с последней отправки
// прошло меньше настроенного интервала
func (s *Service) checkCooldown(ctx context.Context, phone string, now time.Time) error {
	last, err := s.repo.FindMostRecent(ctx, phone)
	if err != nil {
		if errors.Is(err, otpRepo.ErrCodeNotFound) {
			return nil
		}
		s.logger.Error("checkCooldown: repository error for phone=%s: %v", maskPhone(phone), err)
		return fmt.Errorf("%w: checkCooldown - repository error: %v", ErrInternal, err)
	}

	cooldown := time.Duration(s.policy.OTPResendCooldownSeconds(ctx)) * time.Second

	remaining := last.CooldownRemaining(now, cooldown)
	if remaining > 0 {
		retryAfter := int(math.Ceil(remaining.Seconds()))
		s.logger.Warn("checkCooldown: phone=%s rate limited, retry after %ds", maskPhone(phone), retryAfter)
		return &RateLimitError{RetryAfterSeconds: retryAfter}
	}

	return nil
}

// hashCode возвращает hex-представление SHA-256 хэша кода
func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// maskPhone скрывает середину номера в логах
func maskPhone(phone string) string {
	if len(phone) < 5 {
		return "***"
	}
	return phone[:3] + "****" + phone[len(phone)-2:]
}
