package sqlite

import (
	"context"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/models"
	"github.com/SscSPs/operations_ledger/internal/repositories/database/querybuilder"
	"github.com/SscSPs/operations_ledger/internal/utils/mapping"
)

const operationColumns = `id, type, amount, account_id, category_id, op_date, description, to_account_id,
	exchange_rate, destination_amount, source_currency, destination_currency, created_at, last_updated_at`

const newestFirst = " ORDER BY op_date DESC, created_at DESC, id DESC"
const oldestFirst = " ORDER BY op_date ASC, created_at ASC, id ASC"

type operationRepository struct {
	q querier
}

func scanOperation(s rowScanner) (domain.Operation, error) {
	var m models.Operation
	var date string
	var createdAt, updatedAt int64
	err := s.Scan(
		&m.OperationID,
		&m.Type,
		&m.Amount,
		&m.AccountID,
		&m.CategoryID,
		&date,
		&m.Description,
		&m.ToAccountID,
		&m.ExchangeRate,
		&m.DestinationAmount,
		&m.SourceCurrency,
		&m.DestinationCurrency,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Operation{}, err
	}
	if m.Date, err = domain.ParseDate(date); err != nil {
		return domain.Operation{}, err
	}
	m.CreatedAt = fromUnixNanos(createdAt)
	m.LastUpdatedAt = fromUnixNanos(updatedAt)
	return mapping.ToDomainOperation(m), nil
}

func operationArgs(op domain.Operation) []any {
	m := mapping.ToModelOperation(op)
	return []any{
		m.OperationID,
		m.Type,
		m.Amount,
		m.AccountID,
		m.CategoryID,
		domain.FormatDate(m.Date),
		m.Description,
		m.ToAccountID,
		m.ExchangeRate,
		m.DestinationAmount,
		m.SourceCurrency,
		m.DestinationCurrency,
		toUnixNanos(m.CreatedAt),
		toUnixNanos(m.LastUpdatedAt),
	}
}

// FindOperationByID retrieves an operation by its ID.
func (r *operationRepository) FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+operationColumns+" FROM operations WHERE id = ?", operationID)
	op, err := scanOperation(row)
	if err != nil {
		return nil, wrapError(err, "operation "+operationID+" not found")
	}
	return &op, nil
}

func (r *operationRepository) GetOperationsByWeekOffset(ctx context.Context, today time.Time, n int, filter domain.Filter) ([]domain.Operation, error) {
	start, end := domain.WeekOffsetRange(today, n)
	return r.GetOperationsByDateRange(ctx, start, end, filter)
}

func (r *operationRepository) GetOperationsByDateRange(ctx context.Context, start, end time.Time, filter domain.Filter) ([]domain.Operation, error) {
	q := querybuilder.New(querybuilder.SQLite).DateBetween(start, end).Filter(filter)
	return r.list(ctx, "SELECT "+operationColumns+" FROM operations"+q.WhereClause()+newestFirst, q.Args())
}

func (r *operationRepository) GetNextOldestOperation(ctx context.Context, beforeDate time.Time, filter domain.Filter) (*domain.Operation, error) {
	q := querybuilder.New(querybuilder.SQLite).DateBefore(beforeDate).Filter(filter)
	return r.first(ctx, "SELECT "+operationColumns+" FROM operations"+q.WhereClause()+newestFirst+" LIMIT 1", q.Args())
}

func (r *operationRepository) GetNextNewestOperation(ctx context.Context, afterDate time.Time, filter domain.Filter) (*domain.Operation, error) {
	q := querybuilder.New(querybuilder.SQLite).DateAfter(afterDate).Filter(filter)
	return r.first(ctx, "SELECT "+operationColumns+" FROM operations"+q.WhereClause()+oldestFirst+" LIMIT 1", q.Args())
}

func (r *operationRepository) list(ctx context.Context, query string, args []any) ([]domain.Operation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "failed to query operations")
	}
	defer rows.Close()

	ops := []domain.Operation{}
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, wrapError(err, "failed to scan operation")
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "failed to iterate operations")
	}
	return ops, nil
}

func (r *operationRepository) first(ctx context.Context, query string, args []any) (*domain.Operation, error) {
	op, err := scanOperation(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapError(err, "no further operation")
	}
	return &op, nil
}

func (r *operationRepository) InsertOperation(ctx context.Context, op domain.Operation) error {
	query := `INSERT INTO operations (` + operationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, operationArgs(op)...); err != nil {
		return wrapError(err, "failed to insert operation "+op.OperationID)
	}
	return nil
}

func (r *operationRepository) UpdateOperation(ctx context.Context, op domain.Operation) error {
	query := `UPDATE operations SET
		type = ?, amount = ?, account_id = ?, category_id = ?, op_date = ?, description = ?,
		to_account_id = ?, exchange_rate = ?, destination_amount = ?, source_currency = ?,
		destination_currency = ?, created_at = ?, last_updated_at = ?
		WHERE id = ?`
	args := operationArgs(op)
	args = append(args[1:], op.OperationID)
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError(err, "failed to update operation "+op.OperationID)
	}
	return expectOneRow(res, "operation "+op.OperationID+" not found")
}

func (r *operationRepository) DeleteOperation(ctx context.Context, operationID string) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM operations WHERE id = ?", operationID)
	if err != nil {
		return wrapError(err, "failed to delete operation "+operationID)
	}
	return expectOneRow(res, "operation "+operationID+" not found")
}
