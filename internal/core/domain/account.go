package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a money holding account (wallet, card, bank account).
// Balance is only ever mutated by the balance reconciler, except for the
// opening balance supplied when the account is created.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (e.g., UUID)
	Name         string          `json:"name"`         // User-defined name
	Balance      decimal.Decimal `json:"balance"`      // Exact decimal, never float
	CurrencyCode string          `json:"currencyCode"` // ISO 4217 code
	Hidden       bool            `json:"hidden"`       // Hidden from pickers but still part of the ledger
	DisplayOrder int             `json:"displayOrder"`
	AuditFields
}
