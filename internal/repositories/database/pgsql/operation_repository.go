package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/models"
	"github.com/SscSPs/operations_ledger/internal/repositories/database/querybuilder"
	"github.com/SscSPs/operations_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const operationColumns = `id, type, amount, account_id, category_id, op_date, description, to_account_id,
	exchange_rate, destination_amount, source_currency, destination_currency, created_at, last_updated_at`

const newestFirst = " ORDER BY op_date DESC, created_at DESC, id DESC"
const oldestFirst = " ORDER BY op_date ASC, created_at ASC, id ASC"

type operationRepository struct {
	q querier
}

func scanOperation(row pgx.Row) (domain.Operation, error) {
	var m models.Operation
	err := row.Scan(
		&m.OperationID,
		&m.Type,
		&m.Amount,
		&m.AccountID,
		&m.CategoryID,
		&m.Date,
		&m.Description,
		&m.ToAccountID,
		&m.ExchangeRate,
		&m.DestinationAmount,
		&m.SourceCurrency,
		&m.DestinationCurrency,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return domain.Operation{}, err
	}
	return mapping.ToDomainOperation(m), nil
}

func (r *operationRepository) FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	op, err := scanOperation(r.q.QueryRow(ctx, "SELECT "+operationColumns+" FROM operations WHERE id = $1", operationID))
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
	q := querybuilder.New(querybuilder.Postgres).DateBetween(start, end).Filter(filter)
	rows, err := r.q.Query(ctx, "SELECT "+operationColumns+" FROM operations"+q.WhereClause()+newestFirst, q.Args()...)
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

func (r *operationRepository) GetNextOldestOperation(ctx context.Context, beforeDate time.Time, filter domain.Filter) (*domain.Operation, error) {
	q := querybuilder.New(querybuilder.Postgres).DateBefore(beforeDate).Filter(filter)
	return r.first(ctx, "SELECT "+operationColumns+" FROM operations"+q.WhereClause()+newestFirst+" LIMIT 1", q.Args())
}

func (r *operationRepository) GetNextNewestOperation(ctx context.Context, afterDate time.Time, filter domain.Filter) (*domain.Operation, error) {
	q := querybuilder.New(querybuilder.Postgres).DateAfter(afterDate).Filter(filter)
	return r.first(ctx, "SELECT "+operationColumns+" FROM operations"+q.WhereClause()+oldestFirst+" LIMIT 1", q.Args())
}

func (r *operationRepository) first(ctx context.Context, query string, args []any) (*domain.Operation, error) {
	op, err := scanOperation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapError(err, "no further operation")
	}
	return &op, nil
}

func (r *operationRepository) InsertOperation(ctx context.Context, op domain.Operation) error {
	m := mapping.ToModelOperation(op)
	query := `INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.OperationID,
		m.Type,
		m.Amount,
		m.AccountID,
		m.CategoryID,
		m.Date,
		m.Description,
		m.ToAccountID,
		m.ExchangeRate,
		m.DestinationAmount,
		m.SourceCurrency,
		m.DestinationCurrency,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	return wrapError(err, "failed to insert operation "+op.OperationID)
}

func (r *operationRepository) UpdateOperation(ctx context.Context, op domain.Operation) error {
	m := mapping.ToModelOperation(op)
	query := `UPDATE operations SET
		type = $2, amount = $3, account_id = $4, category_id = $5, op_date = $6, description = $7,
		to_account_id = $8, exchange_rate = $9, destination_amount = $10, source_currency = $11,
		destination_currency = $12, last_updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.OperationID,
		m.Type,
		m.Amount,
		m.AccountID,
		m.CategoryID,
		m.Date,
		m.Description,
		m.ToAccountID,
		m.ExchangeRate,
		m.DestinationAmount,
		m.SourceCurrency,
		m.DestinationCurrency,
		m.LastUpdatedAt,
	)
	if err != nil {
		return wrapError(err, "failed to update operation "+op.OperationID)
	}
	return expectOneRow(tag, "operation "+op.OperationID+" not found")
}

func (r *operationRepository) DeleteOperation(ctx context.Context, operationID string) error {
	tag, err := r.q.Exec(ctx, "DELETE FROM operations WHERE id = $1", operationID)
	if err != nil {
		return wrapError(err, "failed to delete operation "+operationID)
	}
	return expectOneRow(tag, "operation "+operationID+" not found")
}
