package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	bookingRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/booking"
	userRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/user"
	vehicleRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/vehicle"
)

// UseCase use case создания бронирования. Проверка пересечения и вставка
// выполняются в одной сериализуемой транзакции с блокировкой найденных
// строк, поэтому два параллельных запроса на один интервал не могут
// создать двойное бронирование.
type UseCase struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	vehicleRepo  VehicleRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	vehicleRepo VehicleRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		vehicleRepo:  vehicleRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: renter=%d, vehicle=%d, period=%s to %s",
		req.RenterID, req.VehicleID,
		req.StartDate.Format(time.RFC3339), req.EndDate.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Валидация интервала аренды
	if err := validateDates(req.StartDate, req.EndDate, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем арендатора и проверяем его права
	renter, err := uc.userRepo.GetByID(ctx, req.RenterID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: renter id=%d not found", req.RenterID)
			return nil, ErrRenterNotFound
		}
		uc.logger.Error("CreateBooking: failed to get renter id=%d: %v", req.RenterID, err)
		return nil, fmt.Errorf("%w: failed to get renter: %v", ErrInternal, err)
	}

	if !renter.IsRenter() {
		uc.logger.Warn("CreateBooking: user id=%d has role=%s, not a renter", renter.ID, renter.Role)
		return nil, ErrNotARenter
	}

	if !renter.CanBook() {
		uc.logger.Warn("CreateBooking: renter id=%d license status=%s", renter.ID, renter.LicenseStatus)
		return nil, ErrLicenseNotApproved
	}

	// 4. Получаем автомобиль
	vehicle, err := uc.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			uc.logger.Warn("CreateBooking: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	if !vehicle.IsAvailable {
		uc.logger.Warn("CreateBooking: vehicle id=%d is unpublished", vehicle.ID)
		return nil, ErrVehicleUnavailable
	}

	// 5. Считаем стоимость: неполные сутки оплачиваются как полные
	rentalDays := domain.RentalDays(req.StartDate, req.EndDate)
	totalPrice := domain.TotalPriceFor(req.StartDate, req.EndDate, vehicle.PricePerDay)

	var result *domain.Booking

	// 6. Проверка пересечения и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.bookingRepo.FindOverlapping(txCtx, req.VehicleID, req.StartDate, req.EndDate, domain.ActiveStatuses)
		if err != nil && !errors.Is(err, bookingRepo.ErrNoOverlap) {
			uc.logger.Error("CreateBooking: failed to check overlap: %v", err)
			return fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
		}

		if existing != nil {
			uc.logger.Warn("CreateBooking: vehicle id=%d already booked by booking id=%d", req.VehicleID, existing.ID)
			return ErrDatesConflict
		}

		booking := &domain.Booking{
			RenterID:    req.RenterID,
			MerchantID:  vehicle.MerchantID,
			VehicleID:   vehicle.ID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Status:      domain.StatusPending,
			TotalPrice:  totalPrice,
			RenterNotes: req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, price=%.2f for %d day(s)",
		result.ID, result.TotalPrice, rentalDays)

	// 7. Уведомляем владельца (сбой не влияет на результат)
	uc.notifyMerchant(ctx, renter, result, vehicle)

	return &Response{
		ID:         result.ID,
		RenterID:   result.RenterID,
		MerchantID: result.MerchantID,
		VehicleID:  result.VehicleID,
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
		Status:     string(result.Status),
		TotalPrice: result.TotalPrice,
		RentalDays: rentalDays,
		Notes:      result.RenterNotes,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

// notifyMerchant отправляет владельцу уведомление о новом запросе
func (uc *UseCase) notifyMerchant(ctx context.Context, renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) {
	merchant, err := uc.userRepo.GetByID(ctx, vehicle.MerchantID)
	if err != nil {
		uc.logger.Warn("CreateBooking: skip notification, failed to load merchant id=%d: %v", vehicle.MerchantID, err)
		return
	}

	uc.notifier.NotifyNewBooking(merchant, renter, booking, vehicle)
}
