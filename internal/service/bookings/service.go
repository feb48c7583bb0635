package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	bookingRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/booking"
	"github.com/rentmyvroom/RMV-CoreService/internal/service/bookings/models"
	"github.com/rentmyvroom/RMV-CoreService/pkg/ptr"
)

// Service сервис жизненного цикла бронирований. Каждый переход статуса
// выполняется условным UPDATE (WHERE status = ожидаемый), поэтому из двух
// конкурирующих запросов ровно один выигрывает, второй получает ErrInvalidState.
type Service struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	vehicleRepo  VehicleRepository
	policy       PolicySource
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	vehicleRepo VehicleRepository,
	policy PolicySource,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		vehicleRepo:  vehicleRepo,
		policy:       policy,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Доступно только арендатору и владельцу автомобиля этого бронирования.
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if booking.RenterID != callerID && booking.MerchantID != callerID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", callerID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetRenterBookings получает историю бронирований арендатора.
// Опционально фильтрует по статусу.
func (s *Service) GetRenterBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	status, err := s.parseStatusFilter(req.Status)
	if err != nil {
		s.logger.Warn("GetRenterBookings: invalid status=%s for renter=%d", *req.Status, req.OwnerID)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByRenterID(ctx, req.OwnerID, status)
	if err != nil {
		s.logger.Error("GetRenterBookings: repository error for renter=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetRenterBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRenterBookings: fetched %d bookings for renter=%d", len(bookings), req.OwnerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetMerchantBookings получает бронирования всех автомобилей владельца.
// Опционально фильтрует по статусу.
func (s *Service) GetMerchantBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	status, err := s.parseStatusFilter(req.Status)
	if err != nil {
		s.logger.Warn("GetMerchantBookings: invalid status=%s for merchant=%d", *req.Status, req.OwnerID)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByMerchantID(ctx, req.OwnerID, status)
	if err != nil {
		s.logger.Error("GetMerchantBookings: repository error for merchant=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetMerchantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMerchantBookings: fetched %d bookings for merchant=%d", len(bookings), req.OwnerID)
	return models.FromDomainBookingList(bookings), nil
}

// Accept подтверждает ожидающее бронирование. Доступно только владельцу
// автомобиля; допустим только переход pending -> accepted.
func (s *Service) Accept(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	now := s.timeProvider.Now()
	upd := bookingRepo.StatusUpdate{
		MerchantNotes: req.MerchantNotes,
		AcceptedAt:    ptr.Ptr(now),
	}

	updated, err := s.merchantTransition(ctx, "Accept", bookingID, req.MerchantID, domain.StatusPending, domain.StatusAccepted, upd)
	if err != nil {
		return nil, err
	}

	s.notifyRenter(ctx, "Accept", updated, s.notifier.NotifyBookingAccepted)
	return models.FromDomainBooking(updated), nil
}

// Reject отклоняет ожидающее бронирование. Доступно только владельцу
// автомобиля; допустим только переход pending -> rejected.
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	now := s.timeProvider.Now()
	upd := bookingRepo.StatusUpdate{
		MerchantNotes: req.MerchantNotes,
		RejectedAt:    ptr.Ptr(now),
	}

	updated, err := s.merchantTransition(ctx, "Reject", bookingID, req.MerchantID, domain.StatusPending, domain.StatusRejected, upd)
	if err != nil {
		return nil, err
	}

	s.notifyRenter(ctx, "Reject", updated, s.notifier.NotifyBookingRejected)
	return models.FromDomainBooking(updated), nil
}

// Complete завершает подтвержденную аренду. Доступно только владельцу
// автомобиля; допустим только переход accepted -> completed.
func (s *Service) Complete(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	now := s.timeProvider.Now()
	upd := bookingRepo.StatusUpdate{
		MerchantNotes: req.MerchantNotes,
		CompletedAt:   ptr.Ptr(now),
	}

	updated, err := s.merchantTransition(ctx, "Complete", bookingID, req.MerchantID, domain.StatusAccepted, domain.StatusCompleted, upd)
	if err != nil {
		return nil, err
	}

	s.notifyRenter(ctx, "Complete", updated, s.notifier.NotifyBookingCompleted)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование по инициативе арендатора.
// Размер окна отмены читается из системной конфигурации на каждый вызов;
// отмена ровно на границе окна разрешена.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return nil, err
	}

	if booking.RenterID != req.RenterID {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.RenterID, bookingID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrInvalidState
	}

	now := s.timeProvider.Now()
	windowHours := s.policy.CancellationWindowHours(ctx)

	if booking.HoursUntilStart(now) < float64(windowHours) {
		s.logger.Warn("Cancel: window expired for booking id=%d, window=%dh", bookingID, windowHours)
		return nil, &CancellationWindowError{WindowHours: windowHours}
	}

	upd := bookingRepo.StatusUpdate{CancelledAt: ptr.Ptr(now)}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, domain.StatusCancelled, upd)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, s.resolveConflict(ctx, "Cancel", bookingID)
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled by renter=%d", bookingID, req.RenterID)
	s.notifyCancelled(ctx, updated)

	return models.FromDomainBooking(updated), nil
}

// MerchantStats возвращает агрегированную статистику владельца
// за текущий календарный месяц и за всё время
func (s *Service) MerchantStats(ctx context.Context, merchantID int64) (*models.MerchantStatsResponse, error) {
	now := s.timeProvider.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats, err := s.bookingRepo.GetMerchantStats(ctx, merchantID, monthStart, monthEnd)
	if err != nil {
		s.logger.Error("MerchantStats: repository error for merchant=%d: %v", merchantID, err)
		return nil, fmt.Errorf("%w: MerchantStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// Вспомогательные методы

// merchantTransition выполняет переход статуса по инициативе владельца:
// проверяет принадлежность автомобиля и применяет условный UPDATE
func (s *Service) merchantTransition(
	ctx context.Context,
	name string,
	bookingID int64,
	merchantID int64,
	expected, next domain.BookingStatus,
	upd bookingRepo.StatusUpdate,
) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID, name)
	if err != nil {
		return nil, err
	}

	if booking.MerchantID != merchantID {
		s.logger.Warn("%s: access denied for merchant=%d to booking id=%d", name, merchantID, bookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != expected {
		s.logger.Warn("%s: booking id=%d has status=%s, expected=%s", name, bookingID, booking.Status, expected)
		return nil, ErrInvalidState
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, expected, next, upd)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, s.resolveConflict(ctx, name, bookingID)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", name, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, name, err)
	}

	s.logger.Info("%s: booking id=%d moved to status=%s", name, bookingID, next)
	return updated, nil
}

// resolveConflict различает "не найдено" и "статус уже изменился",
// когда условный UPDATE не затронул ни одной строки
func (s *Service) resolveConflict(ctx context.Context, name string, bookingID int64) error {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d disappeared during transition", name, bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("%s: repository error resolving conflict for booking id=%d: %v", name, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, name, err)
	}

	s.logger.Warn("%s: booking id=%d lost the transition race", name, bookingID)
	return ErrInvalidState
}

func (s *Service) getBooking(ctx context.Context, id int64, name string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", name, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", name, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, name, err)
	}
	return booking, nil
}

func (s *Service) parseStatusFilter(raw *string) (*domain.BookingStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := models.ToDomainBookingStatus(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	return &status, nil
}

// notifyRenter отправляет арендатору уведомление о смене статуса.
// Сбой загрузки данных для письма логируется и не влияет на результат.
func (s *Service) notifyRenter(ctx context.Context, name string, booking *domain.Booking, notify func(*domain.User, *domain.Booking, *domain.Vehicle)) {
	renter, err := s.userRepo.GetByID(ctx, booking.RenterID)
	if err != nil {
		s.logger.Warn("%s: skip notification, failed to load renter id=%d: %v", name, booking.RenterID, err)
		return
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if err != nil {
		s.logger.Warn("%s: skip notification, failed to load vehicle id=%d: %v", name, booking.VehicleID, err)
		return
	}

	notify(renter, booking, vehicle)
}

// notifyCancelled уведомляет владельца об отмене бронирования арендатором
func (s *Service) notifyCancelled(ctx context.Context, booking *domain.Booking) {
	merchant, err := s.userRepo.GetByID(ctx, booking.MerchantID)
	if err != nil {
		s.logger.Warn("Cancel: skip notification, failed to load merchant id=%d: %v", booking.MerchantID, err)
		return
	}

	renter, err := s.userRepo.GetByID(ctx, booking.RenterID)
	if err != nil {
		s.logger.Warn("Cancel: skip notification, failed to load renter id=%d: %v", booking.RenterID, err)
		return
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if err != nil {
		s.logger.Warn("Cancel: skip notification, failed to load vehicle id=%d: %v", booking.VehicleID, err)
		return
	}

	s.notifier.NotifyBookingCancelled(merchant, renter, booking, vehicle)
}
