package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the kind of ledger entry.
type OperationType string

const (
	Expense  OperationType = "expense"
	Income   OperationType = "income"
	Transfer OperationType = "transfer"
)

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	switch t {
	case Expense, Income, Transfer:
		return true
	}
	return false
}

// Operation is a single ledger entry. Transfer-only fields are left empty for
// expenses and incomes.
type Operation struct {
	OperationID string          `json:"operationID"`
	Type        OperationType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`    // Positive value
	AccountID   string          `json:"accountID"` // Source account
	CategoryID  string          `json:"categoryID,omitempty"`
	Date        time.Time       `json:"date"` // Calendar date, partition/sort key
	Description string          `json:"description,omitempty"`

	ToAccountID         string           `json:"toAccountID,omitempty"`
	ExchangeRate        *decimal.Decimal `json:"exchangeRate,omitempty"`
	DestinationAmount   *decimal.Decimal `json:"destinationAmount,omitempty"`
	SourceCurrency      string           `json:"sourceCurrency,omitempty"` // currency of AccountID
	DestinationCurrency string           `json:"destinationCurrency,omitempty"`

	AuditFields
}

// IsTransfer reports whether the operation moves money between two accounts.
func (o Operation) IsTransfer() bool {
	return o.Type == Transfer
}

// IsMultiCurrency reports whether the transfer crosses currencies and carries a
// destination amount of its own.
func (o Operation) IsMultiCurrency() bool {
	return o.IsTransfer() &&
		o.DestinationAmount != nil &&
		o.SourceCurrency != "" &&
		o.DestinationCurrency != "" &&
		o.SourceCurrency != o.DestinationCurrency
}

// CreditedAmount is what the destination account of a transfer receives.
func (o Operation) CreditedAmount() decimal.Decimal {
	if o.IsMultiCurrency() {
		return *o.DestinationAmount
	}
	return o.Amount
}

// BalanceEffects returns the signed delta this operation applies to each account it references.
func (o Operation) BalanceEffects() map[string]decimal.Decimal {
	effects := make(map[string]decimal.Decimal, 2)
	switch o.Type {
	case Expense:
		effects[o.AccountID] = o.Amount.Neg()
	case Income:
		effects[o.AccountID] = o.Amount
	case Transfer:
		effects[o.AccountID] = o.Amount.Neg()
		effects[o.ToAccountID] = effects[o.ToAccountID].Add(o.CreditedAmount())
	}
	return effects
}

// CompareLogOrder orders operations the way the log is shown: date descending,
// then insertion descending, then id descending.
func CompareLogOrder(a, b Operation) int {
	if c := NormalizeDate(b.Date).Compare(NormalizeDate(a.Date)); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(b.OperationID, a.OperationID)
}

// ClearTransferFields drops the transfer-only fields, used when an operation stops being a transfer.
func (o *Operation) ClearTransferFields() {
	o.ToAccountID = ""
	o.ExchangeRate = nil
	o.DestinationAmount = nil
	o.SourceCurrency = ""
	o.DestinationCurrency = ""
}

// OperationPatch holds the fields of an update. Nil means "leave unchanged".
type OperationPatch struct {
	Type              *OperationType
	Amount            *decimal.Decimal
	AccountID         *string
	CategoryID        *string
	Date              *time.Time
	Description       *string
	ToAccountID       *string
	ExchangeRate      *decimal.Decimal
	DestinationAmount *decimal.Decimal
}

// IsEmpty reports whether the patch changes nothing.
func (p OperationPatch) IsEmpty() bool {
	return p.Type == nil && p.Amount == nil && p.AccountID == nil && p.CategoryID == nil &&
		p.Date == nil && p.Description == nil && p.ToAccountID == nil &&
		p.ExchangeRate == nil && p.DestinationAmount == nil
}

// Apply returns a copy of op with the patch applied. Switching away from a
// transfer drops the transfer fields; switching to a transfer drops the category.
func (p OperationPatch) Apply(op Operation) Operation {
	out := op
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.AccountID != nil {
		out.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		out.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		out.Date = NormalizeDate(*p.Date)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.ToAccountID != nil {
		out.ToAccountID = *p.ToAccountID
	}
	if p.ExchangeRate != nil {
		rate := *p.ExchangeRate
		out.ExchangeRate = &rate
	}
	if p.DestinationAmount != nil {
		amount := *p.DestinationAmount
		out.DestinationAmount = &amount
	}

	if out.Type != Transfer {
		out.ClearTransferFields()
	} else {
		out.CategoryID = ""
	}
	return out
}
