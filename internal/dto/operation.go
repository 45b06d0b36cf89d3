package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/shopspring/decimal"
)

// CreateOperationRequest defines the data needed to record an operation.
// Amounts and rates travel as decimal strings.
type CreateOperationRequest struct {
	Type              string `json:"type" binding:"required,oneof=expense income transfer"`
	Amount            string `json:"amount" binding:"required"`
	AccountID         string `json:"accountID" binding:"required"`
	CategoryID        string `json:"categoryID"`
	Date              string `json:"date" binding:"required"` // YYYY-MM-DD
	Description       string `json:"description"`
	ToAccountID       string `json:"toAccountID"`
	ExchangeRate      string `json:"exchangeRate"`
	DestinationAmount string `json:"destinationAmount"`
}

// OperationDraftRequest carries a possibly incomplete operation to the validate
// endpoint. Nothing is enforced at bind time; the validator reports problems.
type OperationDraftRequest struct {
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	AccountID         string `json:"accountID"`
	CategoryID        string `json:"categoryID"`
	Date              string `json:"date"`
	Description       string `json:"description"`
	ToAccountID       string `json:"toAccountID"`
	ExchangeRate      string `json:"exchangeRate"`
	DestinationAmount string `json:"destinationAmount"`
}

// UpdateOperationRequest uses pointers to distinguish between zero-value updates and fields not provided.
type UpdateOperationRequest struct {
	Type              *string `json:"type" binding:"omitempty,oneof=expense income transfer"`
	Amount            *string `json:"amount"`
	AccountID         *string `json:"accountID"`
	CategoryID        *string `json:"categoryID"`
	Date              *string `json:"date"`
	Description       *string `json:"description"`
	ToAccountID       *string `json:"toAccountID"`
	ExchangeRate      *string `json:"exchangeRate"`
	DestinationAmount *string `json:"destinationAmount"`
}

// OperationResponse defines the data returned for an operation. Amounts carry
// the decimal places of their currency, rates carry currency.RatePlaces.
type OperationResponse struct {
	OperationID         string    `json:"operationID"`
	Type                string    `json:"type"`
	Amount              string    `json:"amount"`
	AccountID           string    `json:"accountID"`
	CategoryID          string    `json:"categoryID,omitempty"`
	Date                string    `json:"date"`
	Description         string    `json:"description,omitempty"`
	ToAccountID         string    `json:"toAccountID,omitempty"`
	ExchangeRate        *string   `json:"exchangeRate,omitempty"`
	DestinationAmount   *string   `json:"destinationAmount,omitempty"`
	SourceCurrency      string    `json:"sourceCurrency,omitempty"`
	DestinationCurrency string    `json:"destinationCurrency,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
}

// ValidateOperationResponse carries the validator verdict. An empty message means valid.
type ValidateOperationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ToDomain converts the request into an operation, failing on unparsable numbers or dates.
func (r CreateOperationRequest) ToDomain() (domain.Operation, error) {
	return OperationDraftRequest(r).ToDomain()
}

// ToDomain converts the draft leniently: empty numeric fields stay zero so the
// validator can report them with its own wording.
func (r OperationDraftRequest) ToDomain() (domain.Operation, error) {
	op := domain.Operation{
		Type:        domain.OperationType(strings.TrimSpace(r.Type)),
		AccountID:   strings.TrimSpace(r.AccountID),
		CategoryID:  strings.TrimSpace(r.CategoryID),
		Description: r.Description,
		ToAccountID: strings.TrimSpace(r.ToAccountID),
	}

	var err error
	if op.Amount, err = parseAmount("amount", r.Amount); err != nil {
		return op, err
	}
	if r.Date != "" {
		if op.Date, err = domain.ParseDate(r.Date); err != nil {
			return op, apperrors.NewValidationError("date must use the YYYY-MM-DD format")
		}
	}
	if op.ExchangeRate, err = parseOptionalDecimal("exchangeRate", r.ExchangeRate); err != nil {
		return op, err
	}
	if op.DestinationAmount, err = parseOptionalDecimal("destinationAmount", r.DestinationAmount); err != nil {
		return op, err
	}
	return op, nil
}

// ToPatch converts the request into a domain patch.
func (r UpdateOperationRequest) ToPatch() (domain.OperationPatch, error) {
	var patch domain.OperationPatch
	if r.Type != nil {
		t := domain.OperationType(*r.Type)
		patch.Type = &t
	}
	if r.Amount != nil {
		amount, err := parseAmount("amount", *r.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	patch.AccountID = r.AccountID
	patch.CategoryID = r.CategoryID
	patch.Description = r.Description
	patch.ToAccountID = r.ToAccountID
	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return patch, apperrors.NewValidationError("date must use the YYYY-MM-DD format")
		}
		patch.Date = &date
	}
	if r.ExchangeRate != nil {
		rate, err := parseOptionalDecimal("exchangeRate", *r.ExchangeRate)
		if err != nil {
			return patch, err
		}
		if rate != nil {
			patch.ExchangeRate = rate
		}
	}
	if r.DestinationAmount != nil {
		amount, err := parseOptionalDecimal("destinationAmount", *r.DestinationAmount)
		if err != nil {
			return patch, err
		}
		if amount != nil {
			patch.DestinationAmount = amount
		}
	}
	return patch, nil
}

// ToOperationResponse converts a domain.Operation to OperationResponse DTO
func ToOperationResponse(op *domain.Operation) OperationResponse {
	res := OperationResponse{
		OperationID:         op.OperationID,
		Type:                string(op.Type),
		Amount:              formatAmount(op.Amount, op.SourceCurrency),
		AccountID:           op.AccountID,
		CategoryID:          op.CategoryID,
		Date:                domain.FormatDate(op.Date),
		Description:         op.Description,
		ToAccountID:         op.ToAccountID,
		SourceCurrency:      op.SourceCurrency,
		DestinationCurrency: op.DestinationCurrency,
		CreatedAt:           op.CreatedAt,
		LastUpdatedAt:       op.LastUpdatedAt,
	}
	if op.ExchangeRate != nil {
		rate := currency.FormatRate(*op.ExchangeRate)
		res.ExchangeRate = &rate
	}
	if op.DestinationAmount != nil {
		amount := formatAmount(*op.DestinationAmount, op.DestinationCurrency)
		res.DestinationAmount = &amount
	}
	return res
}

// formatAmount renders amount with the decimal places of code. Rows written
// before the currency was recorded have no code and keep their stored digits.
func formatAmount(amount decimal.Decimal, code string) string {
	if code == "" {
		return amount.String()
	}
	return currency.FormatForCurrency(amount, code)
}

// ToListOperationResponse converts a slice of domain.Operation to a slice of OperationResponse DTOs
func ToListOperationResponse(ops []domain.Operation) []OperationResponse {
	res := make([]OperationResponse, len(ops))
	for i := range ops {
		res[i] = ToOperationResponse(&ops[i])
	}
	return res
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(field + " must be a valid number")
	}
	return d, nil
}

func parseOptionalDecimal(field, raw string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := parseAmount(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
