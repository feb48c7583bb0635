package refreshtoken

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

// Repository репозиторий refresh-токенов. Хранятся только SHA-256 хэши
// непрозрачных значений, сами токены никогда не пишутся в БД.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория refresh-токенов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый refresh-токен
func (r *Repository) Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("refresh_tokens").
		Columns("user_id", "token_hash", "expires_at").
		Values(token.UserID, token.TokenHash, token.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return token, nil
}

// GetByHash находит токен по хэшу значения
func (r *Repository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "token_hash", "expires_at", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByHash - build select query: %w", ErrBuildQuery, err)
	}

	var token domain.RefreshToken
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHash - scan token: %w", ErrScanRow, err)
	}

	return &token, nil
}

// Delete удаляет токен (ротация при refresh, logout)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("refresh_tokens").
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
		return ErrTokenNotFound
	}

	return nil
}

// DeleteExpired удаляет просроченные токены, возвращает количество удаленных
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("refresh_tokens").
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
