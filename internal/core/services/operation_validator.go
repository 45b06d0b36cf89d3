package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// operationRules carries the field level rules of an operation.
type operationRules struct {
	Type      string          `validate:"required,oneof=expense income transfer"`
	Amount    decimal.Decimal `validate:"gt=0"`
	AccountID string          `validate:"required"`
	Date      time.Time       `validate:"calendar_date"`
}

var ruleMessages = map[string]string{
	"Type.required":      "operation type is required",
	"Type.oneof":         "operation type must be expense, income or transfer",
	"Amount.gt":          "amount must be greater than zero",
	"AccountID.required": "account is required",
	"Date.calendar_date": "date is required",
}

// OperationValidator checks an operation before it reaches the store.
type OperationValidator struct {
	validate   *validator.Validate
	accounts   portsrepo.AccountReader
	categories portsrepo.CategoryReader
}

// NewOperationValidator creates a validator backed by the account and category readers.
func NewOperationValidator(accounts portsrepo.AccountReader, categories portsrepo.CategoryReader) *OperationValidator {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.IsZero()
	})
	return &OperationValidator{validate: v, accounts: accounts, categories: categories}
}

// decimalValue lets numeric tags such as gt=0 apply to decimal amounts.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// Message returns the first problem with op as a user facing message, or "".
func (v *OperationValidator) Message(ctx context.Context, op domain.Operation) string {
	if err := v.Validate(ctx, op, false); err != nil {
		return apperrors.ValidationMessage(err)
	}
	return ""
}

// Validate returns a validation error describing the first problem with op.
// Shadow categories are accepted only when allowShadow is set.
func (v *OperationValidator) Validate(ctx context.Context, op domain.Operation, allowShadow bool) error {
	if err := v.checkFields(op); err != nil {
		return err
	}

	if op.IsTransfer() {
		return v.checkTransfer(ctx, op)
	}

	if strings.TrimSpace(op.CategoryID) == "" {
		return apperrors.NewValidationError("category is required")
	}
	if err := v.checkAccountExists(ctx, op.AccountID, "account"); err != nil {
		return err
	}

	category, err := v.categories.FindCategoryByID(ctx, op.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("category does not exist")
		}
		return err
	}
	if string(category.Type) != string(op.Type) {
		return apperrors.NewValidationError("category type does not match the operation type")
	}
	if category.IsShadow && !allowShadow {
		return apperrors.NewValidationError("category is reserved for balance adjustments")
	}
	return nil
}

func (v *OperationValidator) checkFields(op domain.Operation) error {
	err := v.validate.Struct(operationRules{
		Type:      string(op.Type),
		Amount:    op.Amount,
		AccountID: strings.TrimSpace(op.AccountID),
		Date:      op.Date,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if msg, ok := ruleMessages[fe.Field()+"."+fe.Tag()]; ok {
			return apperrors.NewValidationError(msg)
		}
		return apperrors.NewValidationError(strings.ToLower(fe.Field()) + " is invalid")
	}
	return apperrors.NewValidationError(err.Error())
}

func (v *OperationValidator) checkTransfer(ctx context.Context, op domain.Operation) error {
	if strings.TrimSpace(op.ToAccountID) == "" {
		return apperrors.NewValidationError("destination account is required")
	}
	if op.AccountID == op.ToAccountID {
		return apperrors.NewValidationError("source and destination accounts must differ")
	}

	found, err := v.accounts.FindAccountsByIDs(ctx, []string{op.AccountID, op.ToAccountID})
	if err != nil {
		return err
	}
	source, ok := found[op.AccountID]
	if !ok {
		return apperrors.NewValidationError("account does not exist")
	}
	destination, ok := found[op.ToAccountID]
	if !ok {
		return apperrors.NewValidationError("destination account does not exist")
	}

	if source.CurrencyCode != destination.CurrencyCode {
		if op.DestinationAmount == nil || !op.DestinationAmount.IsPositive() {
			return apperrors.NewValidationError("destination amount must be greater than zero for a multi-currency transfer")
		}
		if op.ExchangeRate != nil && !op.ExchangeRate.IsPositive() {
			return apperrors.NewValidationError("exchange rate must be greater than zero")
		}
	}
	return nil
}

func (v *OperationValidator) checkAccountExists(ctx context.Context, accountID, label string) error {
	if _, err := v.accounts.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError(label + " does not exist")
		}
		return err
	}
	return nil
}
