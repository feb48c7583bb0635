package systemconfig

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	configRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/systemconfig"
)

// managedKeys - ключи политик, которые разрешено менять через API.
// Каждое значение - положительное целое число.
var managedKeys = map[string]struct{}{
	domain.KeyOTPExpiryMinutes:         {},
	domain.KeyOTPMaxAttempts:           {},
	domain.KeyOTPResendCooldownSeconds: {},
	domain.KeyCancellationWindowHours:  {},
}

// Service сервис системной конфигурации. Значения политик читаются из базы
// при каждом обращении: изменение через API действует немедленно, без
// перезапуска и без прогрева кэшей.
type Service struct {
	repo   ConfigRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса системной конфигурации
func NewService(repo ConfigRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get возвращает значение по ключу
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, configRepo.ErrKeyNotFound) {
			return "", ErrKeyNotFound
		}
		s.logger.Error("Get: repository error for key=%s: %v", key, err)
		return "", fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return value, nil
}

// GetAll возвращает все пары ключ-значение
func (s *Service) GetAll(ctx context.Context) ([]*domain.PolicyEntry, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAll - repository error: %v", ErrInternal, err)
	}
	return entries, nil
}

// Set создает или обновляет значение политики.
// Разрешены только известные ключи с положительным целым значением.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if _, ok := managedKeys[key]; !ok {
		s.logger.Warn("Set: unknown config key=%s", key)
		return fmt.Errorf("%w: unknown key %q", ErrInvalidInput, key)
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		s.logger.Warn("Set: invalid value=%s for key=%s", value, key)
		return fmt.Errorf("%w: value for %q must be a positive integer", ErrInvalidInput, key)
	}

	if err := s.repo.Set(ctx, key, value); err != nil {
		s.logger.Error("Set: repository error for key=%s: %v", key, err)
		return fmt.Errorf("%w: Set - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Set: config key=%s updated to %s", key, value)
	return nil
}

// OTPExpiryMinutes возвращает время жизни кода подтверждения в минутах
func (s *Service) OTPExpiryMinutes(ctx context.Context) int {
	return s.intValue(ctx, domain.KeyOTPExpiryMinutes, domain.DefaultOTPExpiryMinutes)
}

// OTPMaxAttempts возвращает максимальное число попыток ввода кода
func (s *Service) OTPMaxAttempts(ctx context.Context) int {
	return s.intValue(ctx, domain.KeyOTPMaxAttempts, domain.DefaultOTPMaxAttempts)
}

// OTPResendCooldownSeconds возвращает минимальный интервал между отправками кода
func (s *Service) OTPResendCooldownSeconds(ctx context.Context) int {
	return s.intValue(ctx, domain.KeyOTPResendCooldownSeconds, domain.DefaultOTPResendCooldownSeconds)
}

// CancellationWindowHours возвращает минимальное число часов до начала аренды,
// при котором арендатор ещё может отменить бронирование
func (s *Service) CancellationWindowHours(ctx context.Context) int {
	return s.intValue(ctx, domain.KeyCancellationWindowHours, domain.DefaultCancellationWindowHours)
}

// intValue читает целочисленное значение политики с фолбэком на значение
// по умолчанию, если ключ отсутствует или содержит мусор
func (s *Service) intValue(ctx context.Context, key string, fallback int) int {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, configRepo.ErrKeyNotFound) {
			s.logger.Error("intValue: repository error for key=%s, using default=%d: %v", key, fallback, err)
		}
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		s.logger.Warn("intValue: malformed value=%q for key=%s, using default=%d", value, key, fallback)
		return fallback
	}

	return parsed
}
