package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the persisted form of an operation row. Transfer-only columns are nullable.
type Operation struct {
	OperationID         string           `db:"id"`
	Type                string           `db:"type"`
	Amount              decimal.Decimal  `db:"amount"`
	AccountID           string           `db:"account_id"`
	CategoryID          *string          `db:"category_id"`
	Date                time.Time        `db:"op_date"`
	Description         string           `db:"description"`
	ToAccountID         *string          `db:"to_account_id"`
	ExchangeRate        *decimal.Decimal `db:"exchange_rate"`
	DestinationAmount   *decimal.Decimal `db:"destination_amount"`
	SourceCurrency      *string          `db:"source_currency"`
	DestinationCurrency *string          `db:"destination_currency"`
	AuditFields
}
