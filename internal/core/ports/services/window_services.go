package services

import (
	"context"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// OperationWindowSvc drives the bidirectional lazy loading of the operation log.
type OperationWindowSvc interface {
	LoadInitial(ctx context.Context, filter domain.Filter) error
	LoadMoreOperations(ctx context.Context) error
	LoadNewerOperations(ctx context.Context) error
	JumpToDate(ctx context.Context, target time.Time) error
	State() domain.WindowState
}

// FilterSvc owns the persisted compound filter.
type FilterSvc interface {
	// UpdateFilters replaces the active filter, persists it and resets pagination.
	UpdateFilters(ctx context.Context, filter domain.Filter) error
	ClearFilters(ctx context.Context) error
	ActiveFilters() domain.Filter
	ActiveFilterCount() int
	// Restore reloads the persisted filter and performs the initial load.
	Restore(ctx context.Context) error
}
