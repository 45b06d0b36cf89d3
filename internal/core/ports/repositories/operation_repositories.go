package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// OperationReader defines the read side of the operation log. Every query takes
// a filter; the zero domain.Filter is the unfiltered variant. Results are
// ordered by date descending, then insertion descending, then id.
type OperationReader interface {
	// FindOperationByID retrieves a specific operation by its unique identifier.
	FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error)

	// GetOperationsByWeekOffset returns the operations of the n-th 7-day window ending today-7n.
	GetOperationsByWeekOffset(ctx context.Context, today time.Time, n int, filter domain.Filter) ([]domain.Operation, error)

	// GetOperationsByDateRange returns operations whose date lies in [start, end].
	GetOperationsByDateRange(ctx context.Context, start, end time.Time, filter domain.Filter) ([]domain.Operation, error)

	// GetNextOldestOperation returns the newest operation dated strictly before beforeDate,
	// or apperrors.ErrNotFound.
	GetNextOldestOperation(ctx context.Context, beforeDate time.Time, filter domain.Filter) (*domain.Operation, error)

	// GetNextNewestOperation returns the oldest operation dated strictly after afterDate,
	// or apperrors.ErrNotFound.
	GetNextNewestOperation(ctx context.Context, afterDate time.Time, filter domain.Filter) (*domain.Operation, error)
}
