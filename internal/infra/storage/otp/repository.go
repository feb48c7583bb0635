package otp

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

var otpColumns = []string{
	"id",
	"phone",
	"code_hash",
	"expires_at",
	"verified",
	"attempts",
	"last_sent_at",
	"created_at",
}

// Repository репозиторий для работы с одноразовыми кодами.
// Все мутации счетчика попыток и статуса выполняются условными UPDATE,
// чтобы параллельные verify-запросы не теряли обновления.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория одноразовых кодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый одноразовый код (только хэш, никогда plaintext)
func (r *Repository) Create(ctx context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("otp_codes").
		Columns("phone", "code_hash", "expires_at", "verified", "attempts", "last_sent_at").
		Values(code.Phone, code.CodeHash, code.ExpiresAt, code.Verified, code.Attempts, code.LastSentAt).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return code, nil
}

// FindActive находит самый свежий активный (неподтвержденный, непросроченный)
// код для телефона. Исторические строки игнорируются.
func (r *Repository) FindActive(ctx context.Context, phone string, now time.Time) (*domain.OneTimeCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(otpColumns...).
		From("otp_codes").
		Where(squirrel.Eq{"phone": phone, "verified": false}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindActive - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanCode(executor.QueryRowContext(ctx, query, args...), "FindActive")
}

// FindMostRecent находит последний отправленный код для телефона независимо
// от статуса. Используется для проверки cooldown между отправками.
func (r *Repository) FindMostRecent(ctx context.Context, phone string) (*domain.OneTimeCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(otpColumns...).
		From("otp_codes").
		Where(squirrel.Eq{"phone": phone}).
		OrderBy("last_sent_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindMostRecent - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanCode(executor.QueryRowContext(ctx, query, args...), "FindMostRecent")
}

// IncrementAttempts атомарно увеличивает счетчик попыток, но только если
// максимум еще не достигнут. Возвращает новое значение счетчика.
// Если счетчик уже равен maxAttempts, возвращает ErrAttemptsExhausted -
// это единственная защита от гонки двух параллельных verify.
func (r *Repository) IncrementAttempts(ctx context.Context, id int64, maxAttempts int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("otp_codes").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Lt{"attempts": maxAttempts}).
		Suffix("RETURNING attempts").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: IncrementAttempts - build update query: %w", ErrBuildQuery, err)
	}

	var attempts int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&attempts)
	if err == sql.ErrNoRows {
		return 0, ErrAttemptsExhausted
	}
	if err != nil {
		return 0, fmt.Errorf("%w: IncrementAttempts - execute update: %w", ErrExecQuery, err)
	}

	return attempts, nil
}

// MarkVerified помечает код подтвержденным
func (r *Repository) MarkVerified(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("otp_codes").
		Set("verified", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkVerified - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkVerified - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkVerified - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCodeNotFound
	}

	return nil
}

// Delete удаляет код (вызывается сразу после успешной верификации)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("otp_codes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCodeNotFound
	}

	return nil
}

// DeleteExpired удаляет все коды, просроченные к моменту before,
// независимо от статуса верификации. Возвращает количество удаленных строк.
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("otp_codes").
		Where(squirrel.Lt{"expires_at": before}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %w", ErrExecQuery, err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %w", ErrExecQuery, err)
	}

	return count, nil
}

func (r *Repository) scanCode(row *sql.Row, method string) (*domain.OneTimeCode, error) {
	var code domain.OneTimeCode

	err := row.Scan(
		&code.ID,
		&code.Phone,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.Verified,
		&code.Attempts,
		&code.LastSentAt,
		&code.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan code: %w", ErrScanRow, method, err)
	}

	return &code, nil
}
