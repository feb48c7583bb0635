package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
	"github.com/rentmyvroom/RMV-CoreService/pkg/dbmetrics"
	"github.com/rentmyvroom/RMV-CoreService/pkg/psqlbuilder"
)

var userColumns = []string{
	"id",
	"phone",
	"phone_verified",
	"role",
	"first_name",
	"last_name",
	"email",
	"business_name",
	"license_status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с пользователями.
// Ядро бронирования читает пользователей; запись происходит только
// при регистрации через верификацию телефона.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пользователя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getByColumn(ctx, "id", id, "GetByID")
}

// GetByPhone получает пользователя по номеру телефона (E.164)
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getByColumn(ctx, "phone", phone, "GetByPhone")
}

// Create создает нового пользователя с подтвержденным телефоном
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("phone", "phone_verified", "role", "license_status").
		Values(user.Phone, user.PhoneVerified, user.Role, user.LicenseStatus).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return user, nil
}

func (r *Repository) getByColumn(ctx context.Context, column string, value interface{}, method string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{column: value}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, method, err)
	}

	var user domain.User
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Phone,
		&user.PhoneVerified,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.BusinessName,
		&user.LicenseStatus,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan user: %w", ErrScanRow, method, err)
	}

	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return &user, nil
}
