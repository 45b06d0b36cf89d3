package models

import (
	"github.com/shopspring/decimal"
)

// Account is the persisted form of an account row.
type Account struct {
	AccountID    string          `db:"id"`
	Name         string          `db:"name"`
	Balance      decimal.Decimal `db:"balance"`
	CurrencyCode string          `db:"currency"`
	Hidden       bool            `db:"hidden"`
	DisplayOrder int             `db:"display_order"`
	AuditFields
}
