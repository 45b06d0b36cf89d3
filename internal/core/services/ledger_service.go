package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService pairs every operation write with its balance adjustment and
// tells subscribers about committed changes.
type ledgerService struct {
	BaseService
	store      portsrepo.LedgerStore
	validator  *OperationValidator
	reconciler *BalanceReconciler
	notifier   *Notifier
}

// NewLedgerService creates a ledger service.
func NewLedgerService(store portsrepo.LedgerStore, notifier *Notifier, opts ...Option) *ledgerService {
	return &ledgerService{
		BaseService: newBaseService(opts...),
		store:       store,
		validator:   NewOperationValidator(store, store),
		reconciler:  NewBalanceReconciler(opts...),
		notifier:    notifier,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetOperation returns a stored operation.
func (s *ledgerService) GetOperation(ctx context.Context, operationID string) (*domain.Operation, error) {
	op, err := s.store.FindOperationByID(ctx, operationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get operation", slog.String("operation_id", operationID))
		}
		return nil, err
	}
	return op, nil
}

// ValidateOperation returns the first problem with op, or "".
func (s *ledgerService) ValidateOperation(ctx context.Context, op domain.Operation) string {
	op.Date = domain.NormalizeDate(op.Date)
	return s.validator.Message(ctx, op)
}

// CreateOperation validates op, assigns an id and persists it with its balance effect.
func (s *ledgerService) CreateOperation(ctx context.Context, op domain.Operation) (*domain.Operation, error) {
	op.Date = domain.NormalizeDate(op.Date)
	op.Description = strings.TrimSpace(op.Description)
	if err := s.validator.Validate(ctx, op, false); err != nil {
		return nil, err
	}
	if err := s.normalize(ctx, &op); err != nil {
		return nil, err
	}

	op.OperationID = uuid.NewString()
	op.AuditFields = domain.NewAuditFields(s.Now())

	err := s.store.WithinTx(ctx, func(tx portsrepo.LedgerTx) error {
		if err := tx.InsertOperation(ctx, op); err != nil {
			return err
		}
		return s.reconciler.ApplyCreate(ctx, tx, op)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create operation", slog.String("type", string(op.Type)))
		return nil, err
	}

	s.LogInfo(ctx, "Operation created", slog.String("operation_id", op.OperationID), slog.String("type", string(op.Type)))
	created := op
	s.notifier.Publish(ctx, domain.ChangeEvent{Kind: domain.OperationCreated, Current: &created})
	return &op, nil
}

// AdjustBalance records an income or expense on the shadow balance adjustment
// category so the account ends at target. The difference is taken from the
// account row locked by the transaction. Nil means the balance already matched.
func (s *ledgerService) AdjustBalance(ctx context.Context, accountID string, target decimal.Decimal) (*domain.Operation, error) {
	var adjustment *domain.Operation
	err := s.store.WithinTx(ctx, func(tx portsrepo.LedgerTx) error {
		accounts, err := tx.FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		account, ok := accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID + " not found")
		}

		diff := currency.RoundForCurrency(target, account.CurrencyCode).Sub(account.Balance)
		if diff.IsZero() {
			return nil
		}
		op := domain.Operation{
			OperationID:    uuid.NewString(),
			Type:           domain.Income,
			Amount:         diff,
			AccountID:      accountID,
			CategoryID:     domain.BalanceAdjustmentIncomeCategoryID,
			Date:           domain.NormalizeDate(s.Now()),
			Description:    "Balance adjustment",
			SourceCurrency: account.CurrencyCode,
			AuditFields:    domain.NewAuditFields(s.Now()),
		}
		if diff.IsNegative() {
			op.Type = domain.Expense
			op.Amount = diff.Neg()
			op.CategoryID = domain.BalanceAdjustmentExpenseCategoryID
		}
		if err := s.validator.Validate(ctx, op, true); err != nil {
			return err
		}

		if err := tx.InsertOperation(ctx, op); err != nil {
			return err
		}
		if err := s.reconciler.ApplyCreate(ctx, tx, op); err != nil {
			return err
		}
		adjustment = &op
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to adjust balance", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if adjustment == nil {
		return nil, nil
	}

	s.LogInfo(ctx, "Balance adjusted", slog.String("account_id", accountID), slog.String("operation_id", adjustment.OperationID))
	created := *adjustment
	s.notifier.Publish(ctx, domain.ChangeEvent{Kind: domain.OperationCreated, Current: &created})
	return adjustment, nil
}

// UpdateOperation applies patch to the stored operation, reversing the old
// balance effect and applying the new one in the same transaction.
func (s *ledgerService) UpdateOperation(ctx context.Context, operationID string, patch domain.OperationPatch) (*domain.Operation, error) {
	if patch.IsEmpty() {
		return s.GetOperation(ctx, operationID)
	}

	var oldOp, newOp domain.Operation
	err := s.store.WithinTx(ctx, func(tx portsrepo.LedgerTx) error {
		stored, err := tx.FindOperationByID(ctx, operationID)
		if err != nil {
			return err
		}
		oldOp = *stored

		newOp = patch.Apply(oldOp)
		newOp.Description = strings.TrimSpace(newOp.Description)
		if err := s.validator.Validate(ctx, newOp, s.isShadow(ctx, oldOp.CategoryID)); err != nil {
			return err
		}
		if err := s.normalize(ctx, &newOp); err != nil {
			return err
		}
		newOp.Touch(s.Now())

		if err := tx.UpdateOperation(ctx, newOp); err != nil {
			return err
		}
		return s.reconciler.ApplyUpdate(ctx, tx, oldOp, newOp)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update operation", slog.String("operation_id", operationID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Operation updated", slog.String("operation_id", operationID))
	previous, current := oldOp, newOp
	s.notifier.Publish(ctx, domain.ChangeEvent{Kind: domain.OperationUpdated, Previous: &previous, Current: &current})
	return &newOp, nil
}

// DeleteOperation removes the operation and reverses its balance effect.
func (s *ledgerService) DeleteOperation(ctx context.Context, operationID string) error {
	var oldOp domain.Operation
	err := s.store.WithinTx(ctx, func(tx portsrepo.LedgerTx) error {
		stored, err := tx.FindOperationByID(ctx, operationID)
		if err != nil {
			return err
		}
		oldOp = *stored
		if err := tx.DeleteOperation(ctx, operationID); err != nil {
			return err
		}
		return s.reconciler.ApplyDelete(ctx, tx, oldOp)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete operation", slog.String("operation_id", operationID))
		}
		return err
	}

	s.LogInfo(ctx, "Operation deleted", slog.String("operation_id", operationID))
	s.notifier.Publish(ctx, domain.ChangeEvent{Kind: domain.OperationDeleted, Previous: &oldOp})
	return nil
}

// normalize rounds amounts to the currencies of the referenced accounts and
// records those currencies on the operation.
func (s *ledgerService) normalize(ctx context.Context, op *domain.Operation) error {
	ids := []string{op.AccountID}
	if op.IsTransfer() {
		ids = append(ids, op.ToAccountID)
	}
	accounts, err := s.store.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	source, ok := accounts[op.AccountID]
	if !ok {
		return apperrors.NewValidationError("account does not exist")
	}
	op.Amount = currency.RoundForCurrency(op.Amount, source.CurrencyCode)
	if !op.Amount.IsPositive() {
		return apperrors.NewValidationError("amount must be greater than zero")
	}

	if !op.IsTransfer() {
		op.ClearTransferFields()
		op.SourceCurrency = source.CurrencyCode
		return nil
	}

	destination, ok := accounts[op.ToAccountID]
	if !ok {
		return apperrors.NewValidationError("destination account does not exist")
	}
	op.CategoryID = ""
	op.SourceCurrency = source.CurrencyCode
	op.DestinationCurrency = destination.CurrencyCode
	if source.CurrencyCode == destination.CurrencyCode {
		op.ExchangeRate = nil
		op.DestinationAmount = nil
		return nil
	}

	destinationAmount := currency.RoundForCurrency(*op.DestinationAmount, destination.CurrencyCode)
	op.DestinationAmount = &destinationAmount
	if op.ExchangeRate != nil {
		rate := currency.RoundRate(*op.ExchangeRate)
		op.ExchangeRate = &rate
	} else if op.Amount.IsPositive() {
		rate := currency.RoundRate(destinationAmount.Div(op.Amount))
		op.ExchangeRate = &rate
	}
	return nil
}

func (s *ledgerService) isShadow(ctx context.Context, categoryID string) bool {
	if categoryID == "" {
		return false
	}
	category, err := s.store.FindCategoryByID(ctx, categoryID)
	return err == nil && category.IsShadow
}
