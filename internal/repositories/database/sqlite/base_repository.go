package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/mattn/go-sqlite3"
)

// querier is satisfied by both *sql.DB and *sql.Tx so that the same queries run
// inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *sql.DB
}

// Begin starts a new database transaction. The DSN makes it BEGIN IMMEDIATE.
func (r *BaseRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewStorageError("failed to rollback transaction", err)
	}
	return nil
}

// wrapError maps driver errors onto the application error taxonomy.
func wrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsTaxonomyError(err) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(message)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return apperrors.NewReferentialIntegrityError(fmt.Sprintf("%s: referenced record does not exist or is still in use", message))
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return apperrors.NewAppError(http.StatusConflict, message, errors.Join(apperrors.ErrDuplicate, err))
		}
	}
	return apperrors.NewStorageError(message, err)
}

func toUnixNanos(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// expectOneRow turns "no row matched" into a not found error.
func expectOneRow(res sql.Result, notFoundMessage string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageError("failed to read affected rows", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(notFoundMessage)
	}
	return nil
}
