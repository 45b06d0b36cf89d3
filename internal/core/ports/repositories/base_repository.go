package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is the set of reads and writes available inside a single storage
// transaction. Everything done through one LedgerTx commits or rolls back together.
type LedgerTx interface {
	// FindOperationByID reads an operation as seen by the transaction.
	FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error)

	// InsertOperation persists a new operation row.
	InsertOperation(ctx context.Context, op domain.Operation) error

	// UpdateOperation overwrites an existing operation row.
	UpdateOperation(ctx context.Context, op domain.Operation) error

	// DeleteOperation removes an operation row.
	DeleteOperation(ctx context.Context, operationID string) error

	// FindCategoryByID reads a category as seen by the transaction.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindAccountsByIDsForUpdate selects accounts and locks them until the transaction ends.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds the signed deltas to the current balances.
	UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// TransactionManager runs a unit of work inside one storage transaction.
type TransactionManager interface {
	// WithinTx begins a transaction, runs fn and commits when fn returns nil.
	// Any error returned by fn (or a panic) rolls the transaction back.
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}
