package services

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// LedgerWriterSvc mutates the operation log. Every call pairs the row write with
// the matching balance adjustment in one storage transaction.
type LedgerWriterSvc interface {
	// CreateOperation assigns an id and persists op.
	CreateOperation(ctx context.Context, op domain.Operation) (*domain.Operation, error)

	// UpdateOperation applies patch to the stored operation and returns the result.
	UpdateOperation(ctx context.Context, operationID string, patch domain.OperationPatch) (*domain.Operation, error)

	// DeleteOperation removes the operation and reverses its balance effect.
	DeleteOperation(ctx context.Context, operationID string) error
}

// LedgerValidatorSvc checks operations before they reach the store.
type LedgerValidatorSvc interface {
	// ValidateOperation returns a user facing message, or "" when op is acceptable.
	ValidateOperation(ctx context.Context, op domain.Operation) string
}

// LedgerSvcFacade combines the ledger interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerValidatorSvc
	GetOperation(ctx context.Context, operationID string) (*domain.Operation, error)
}
