package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewStorageError("failed to rollback transaction", err)
	}
	return nil
}

// PostgreSQL error codes the store maps onto the application taxonomy.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

func wrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsTaxonomyError(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(message)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation:
			return apperrors.NewReferentialIntegrityError(message + ": referenced record does not exist or is still in use")
		case uniqueViolation:
			return apperrors.NewAppError(http.StatusConflict, message, errors.Join(apperrors.ErrDuplicate, err))
		}
	}
	return apperrors.NewStorageError(message, err)
}

func expectOneRow(tag pgconn.CommandTag, notFoundMessage string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(notFoundMessage)
	}
	return nil
}
