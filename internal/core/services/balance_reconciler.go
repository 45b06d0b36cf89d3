package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/operations_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// BalanceReconciler keeps stored account balances equal to the signed sum of
// the operations referencing them. It only ever runs inside the transaction of
// the ledger mutation it accompanies.
type BalanceReconciler struct {
	BaseService
}

// NewBalanceReconciler creates a reconciler.
func NewBalanceReconciler(opts ...Option) *BalanceReconciler {
	return &BalanceReconciler{BaseService: newBaseService(opts...)}
}

// ApplyCreate applies the effect of a new operation.
func (r *BalanceReconciler) ApplyCreate(ctx context.Context, tx portsrepo.LedgerTx, op domain.Operation) error {
	return r.apply(ctx, tx, nil, &op)
}

// ApplyUpdate reverses the effect of the stored operation, then applies the new one.
func (r *BalanceReconciler) ApplyUpdate(ctx context.Context, tx portsrepo.LedgerTx, oldOp, newOp domain.Operation) error {
	return r.apply(ctx, tx, &oldOp, &newOp)
}

// ApplyDelete reverses the effect of a removed operation.
func (r *BalanceReconciler) ApplyDelete(ctx context.Context, tx portsrepo.LedgerTx, op domain.Operation) error {
	return r.apply(ctx, tx, &op, nil)
}

func (r *BalanceReconciler) apply(ctx context.Context, tx portsrepo.LedgerTx, previous, current *domain.Operation) error {
	deltas := accounting.NetDeltas(previous, current)
	accountIDs := accounting.SortedAccountIDs(deltas)
	if len(accountIDs) == 0 {
		return nil
	}

	// Every touched account is locked once, in id order, even when its net delta is zero.
	if _, err := tx.FindAccountsByIDsForUpdate(ctx, accountIDs); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewReferentialIntegrityError("an account referenced by the operation does not exist")
		}
		return err
	}

	changes := make(map[string]decimal.Decimal, len(deltas))
	for id, delta := range deltas {
		if !delta.IsZero() {
			changes[id] = delta
		}
	}
	if len(changes) == 0 {
		return nil
	}

	if err := tx.UpdateAccountBalances(ctx, changes, r.Now()); err != nil {
		r.LogError(ctx, err, "Failed to apply balance deltas", slog.Int("accounts", len(changes)))
		return err
	}
	return nil
}
