package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/operations_ledger/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ledgerTx struct {
	*operationRepository
	categories *categoryRepository
	accounts   *accountRepository
	tx         pgx.Tx
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func newLedgerTx(tx pgx.Tx) *ledgerTx {
	return &ledgerTx{
		operationRepository: &operationRepository{q: tx},
		categories:          &categoryRepository{q: tx},
		accounts:            &accountRepository{q: tx},
		tx:                  tx,
	}
}

func (t *ledgerTx) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return t.categories.FindCategoryByID(ctx, categoryID)
}

// FindAccountsByIDsForUpdate locks the accounts with SELECT ... FOR UPDATE. A
// missing account is a referential integrity violation.
func (t *ledgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	locked, err := t.accounts.findAccountsByIDsForUpdate(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewReferentialIntegrityError("account " + id + " does not exist")
		}
	}
	return locked, nil
}

// UpdateAccountBalances adds the deltas in one batch, in ascending id order.
func (t *ledgerTx) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	query := `UPDATE accounts SET balance = balance + $2, last_updated_at = $3 WHERE id = $1`

	accountIDs := accounting.SortedAccountIDs(balanceChanges)
	batch := &pgx.Batch{}
	for _, id := range accountIDs {
		batch.Queue(query, id, balanceChanges[id], now)
	}

	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range accountIDs {
		tag, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = wrapError(err, fmt.Sprintf("failed to update balance for account %s", id))
			}
		} else if tag.RowsAffected() == 0 && batchErr == nil {
			batchErr = apperrors.NewReferentialIntegrityError("account " + id + " vanished during the balance update")
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = wrapError(err, "failed to close balance update batch")
	}
	return batchErr
}
