package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/operations_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerTx runs ledger reads and writes against one *sql.Tx. SQLite has no row
// locks; the IMMEDIATE transaction already holds the database write lock, so
// "for update" reads are plain reads whose results are remembered for the
// balance update.
type ledgerTx struct {
	*operationRepository
	categories *categoryRepository
	accounts   *accountRepository
	locked     map[string]domain.Account
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func newLedgerTx(tx *sql.Tx) *ledgerTx {
	return &ledgerTx{
		operationRepository: &operationRepository{q: tx},
		categories:          &categoryRepository{q: tx},
		accounts:            &accountRepository{q: tx},
		locked:              make(map[string]domain.Account),
	}
}

func (t *ledgerTx) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return t.categories.FindCategoryByID(ctx, categoryID)
}

// FindAccountsByIDsForUpdate returns the requested accounts. A missing account
// is a referential integrity violation.
func (t *ledgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	found, err := t.accounts.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		acc, ok := found[id]
		if !ok {
			return nil, apperrors.NewReferentialIntegrityError("account " + id + " does not exist")
		}
		t.locked[id] = acc
	}
	return found, nil
}

func (t *ledgerTx) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	var missing []string
	for id := range balanceChanges {
		if _, ok := t.locked[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		if _, err := t.FindAccountsByIDsForUpdate(ctx, missing); err != nil {
			return err
		}
	}

	balances, err := accounting.ApplyDeltas(t.locked, balanceChanges)
	if err != nil {
		return apperrors.NewReferentialIntegrityError(err.Error())
	}
	if err := t.accounts.setAccountBalances(ctx, balances, now); err != nil {
		return err
	}
	for id, balance := range balances {
		acc := t.locked[id]
		acc.Balance = balance
		acc.LastUpdatedAt = now
		t.locked[id] = acc
	}
	return nil
}
