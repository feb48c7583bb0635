package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	"github.com/rentmyvroom/RMV-CoreService/pkg/dbmetrics"
	"github.com/rentmyvroom/RMV-CoreService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"renter_id",
	"merchant_id",
	"vehicle_id",
	"start_date",
	"end_date",
	"status",
	"total_price",
	"renter_notes",
	"merchant_notes",
	"accepted_at",
	"rejected_at",
	"completed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// StatusUpdate дополнительные поля, записываемые вместе с переходом статуса
type StatusUpdate struct {
	MerchantNotes *string
	AcceptedAt    *time.Time
	RejectedAt    *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается только внутри сериализуемой транзакции вместе с FindOverlapping -
// проверка пересечения и вставка должны быть одной атомарной единицей.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"renter_id",
			"merchant_id",
			"vehicle_id",
			"start_date",
			"end_date",
			"status",
			"total_price",
			"renter_notes",
		).
		Values(
			booking.RenterID,
			booking.MerchantID,
			booking.VehicleID,
			booking.StartDate,
			booking.EndDate,
			booking.Status,
			booking.TotalPrice,
			booking.RenterNotes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// FindOverlapping находит бронирование на том же автомобиле в одном из
// указанных статусов, пересекающееся с полуоткрытым интервалом [start, end).
// Условие пересечения: existing.start_date < end AND existing.end_date > start.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы закрыть гонку
// между двумя параллельными create на один интервал.
func (r *Repository) FindOverlapping(ctx context.Context, vehicleID int64, start, end time.Time, statuses []domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"status": statusStrings}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNoOverlap
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByRenterID получает бронирования арендатора, свежие первыми.
// Опционально фильтрует по статусу.
func (r *Repository) GetByRenterID(ctx context.Context, renterID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.listByOwner(ctx, "renter_id", renterID, status, "GetByRenterID")
}

// GetByMerchantID получает бронирования на автомобили продавца, свежие первыми.
// Опционально фильтрует по статусу.
func (r *Repository) GetByMerchantID(ctx context.Context, merchantID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.listByOwner(ctx, "merchant_id", merchantID, status, "GetByMerchantID")
}

// UpdateStatus выполняет переход статуса условным обновлением:
// строка меняется только если текущий статус равен expected. Из двух
// параллельных переходов выигрывает ровно один, второй получает
// ErrStatusConflict. Возвращает обновленное бронирование.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus, upd StatusUpdate) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expected})

	if upd.MerchantNotes != nil {
		updateBuilder = updateBuilder.Set("merchant_notes", *upd.MerchantNotes)
	}
	if upd.AcceptedAt != nil {
		updateBuilder = updateBuilder.Set("accepted_at", *upd.AcceptedAt)
	}
	if upd.RejectedAt != nil {
		updateBuilder = updateBuilder.Set("rejected_at", *upd.RejectedAt)
	}
	if upd.CompletedAt != nil {
		updateBuilder = updateBuilder.Set("completed_at", *upd.CompletedAt)
	}
	if upd.CancelledAt != nil {
		updateBuilder = updateBuilder.Set("cancelled_at", *upd.CancelledAt)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + joinColumns(bookingColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetMerchantStats агрегирует показатели продавца одним запросом:
// заработок за текущий месяц (accepted + completed со start_date в месяце),
// общий заработок (только completed), активные и все бронирования.
func (r *Repository) GetMerchantStats(ctx context.Context, merchantID int64, monthStart, monthEnd time.Time) (*domain.MerchantStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN status IN ('accepted', 'completed') AND start_date >= ? AND start_date < ? THEN total_price ELSE 0 END), 0)",
			monthStart, monthEnd,
		)).
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN status = 'completed' THEN total_price ELSE 0 END), 0)",
		)).
		Column(squirrel.Expr(
			"COUNT(*) FILTER (WHERE status IN ('pending', 'accepted'))",
		)).
		Column(squirrel.Expr("COUNT(*)")).
		From("bookings").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetMerchantStats - build select query: %w", ErrBuildQuery, err)
	}

	var stats domain.MerchantStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.CurrentMonthEarnings,
		&stats.TotalEarnings,
		&stats.ActiveCount,
		&stats.TotalCount,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: GetMerchantStats - scan stats: %w", ErrScanRow, err)
	}

	return &stats, nil
}

func (r *Repository) listByOwner(ctx context.Context, column string, ownerID int64, status *domain.BookingStatus, method string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{column: ownerID}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	return r.scanBookings(rows, method)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.RenterID,
		&booking.MerchantID,
		&booking.VehicleID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Status,
		&booking.TotalPrice,
		&booking.RenterNotes,
		&booking.MerchantNotes,
		&booking.AcceptedAt,
		&booking.RejectedAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func (r *Repository) scanBookings(rows *sql.Rows, method string) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, method, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, method, err)
	}

	return bookings, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
