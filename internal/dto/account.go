package dto

import (
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Hidden         bool            `json:"hidden"`
	DisplayOrder   int             `json:"displayOrder"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account; the balance carries the currency's decimal places.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	Name          string    `json:"name"`
	Balance       string    `json:"balance"`
	CurrencyCode  string    `json:"currencyCode"`
	Hidden        bool      `json:"hidden"`
	DisplayOrder  int       `json:"displayOrder"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name         *string `json:"name"`
	Hidden       *bool   `json:"hidden"`
	DisplayOrder *int    `json:"displayOrder"`
}

// AdjustBalanceRequest sets an account balance through a balance adjustment operation.
type AdjustBalanceRequest struct {
	TargetBalance decimal.Decimal `json:"targetBalance" binding:"required"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		Balance:       currency.FormatForCurrency(acc.Balance, acc.CurrencyCode),
		CurrencyCode:  acc.CurrencyCode,
		Hidden:        acc.Hidden,
		DisplayOrder:  acc.DisplayOrder,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// AdjustBalanceResponse carries the account after the adjustment and the
// operation that produced it. Operation is nil when the balance already matched.
type AdjustBalanceResponse struct {
	Account   AccountResponse    `json:"account"`
	Operation *OperationResponse `json:"operation,omitempty"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
