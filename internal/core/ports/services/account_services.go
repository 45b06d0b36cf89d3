package services

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns every account ordered by display order, then id.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// DefaultAccount picks the account new operations should start from.
	DefaultAccount(ctx context.Context) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	// DeleteAccount fails with a referential integrity error while operations reference the account.
	DeleteAccount(ctx context.Context, accountID string) error
	MarkAccessed(ctx context.Context, accountID string) error
	EnsureDefaultAccounts(ctx context.Context, currency string) error
}

// AccountBalanceSvc corrects balances through the ledger.
type AccountBalanceSvc interface {
	// AdjustBalance records a balance adjustment operation so that the account ends at target.
	AdjustBalance(ctx context.Context, accountID string, target decimal.Decimal) (*domain.Operation, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBalanceSvc
}

// CategorySvc is the read-only category provider.
type CategorySvc interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
