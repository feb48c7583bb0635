package vehicle

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	"github.com/rentmyvroom/RMV-CoreService/pkg/dbmetrics"
	"github.com/rentmyvroom/RMV-CoreService/pkg/psqlbuilder"
)

var vehicleColumns = []string{
	"id",
	"merchant_id",
	"make",
	"model",
	"year",
	"license_plate",
	"price_per_day",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий для чтения автомобилей.
// CRUD объявлений живет вне этого сервиса, здесь только чтение.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория автомобилей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает автомобиль по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(vehicleColumns...).
		From("vehicles").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	vehicle, err := r.scanVehicle(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan vehicle: %w", ErrScanRow, err)
	}

	return vehicle, nil
}

// FindAvailable находит доступные автомобили без активного бронирования,
// пересекающегося с полуоткрытым интервалом [start, end)
func (r *Repository) FindAvailable(ctx context.Context, start, end time.Time) ([]*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(vehicleColumns...).
		From("vehicles").
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Expr(
			`NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.vehicle_id = vehicles.id
				  AND b.status IN ('pending', 'accepted')
				  AND b.start_date < ?
				  AND b.end_date > ?
			)`, end, start,
		)).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		vehicle, err := r.scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FindAvailable - scan row: %w", ErrScanRow, err)
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - rows error: %w", ErrScanRow, err)
	}

	return vehicles, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&vehicle.ID,
		&vehicle.MerchantID,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.LicensePlate,
		&vehicle.PricePerDay,
		&vehicle.IsAvailable,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	vehicle.CreatedAt = createdAt.Time
	vehicle.UpdatedAt = updatedAt.Time

	return &vehicle, nil
}
