package repositories

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts ordered by display order, then id.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account, including its opening balance.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, hidden flag and display order. Balance is never touched.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. It fails with apperrors.ErrReferentialIntegrity
	// while operations still reference it.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
