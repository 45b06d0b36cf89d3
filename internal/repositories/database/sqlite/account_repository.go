package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/models"
	"github.com/SscSPs/operations_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const accountColumns = "id, name, balance, currency, hidden, display_order, created_at, last_updated_at"

type accountRepository struct {
	q querier
}

func scanAccount(s rowScanner) (domain.Account, error) {
	var m models.Account
	var createdAt, updatedAt int64
	if err := s.Scan(&m.AccountID, &m.Name, &m.Balance, &m.CurrencyCode, &m.Hidden, &m.DisplayOrder, &createdAt, &updatedAt); err != nil {
		return domain.Account{}, err
	}
	m.CreatedAt = fromUnixNanos(createdAt)
	m.LastUpdatedAt = fromUnixNanos(updatedAt)
	return mapping.ToDomainAccount(m), nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := scanAccount(r.q.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", accountID))
	if err != nil {
		return nil, wrapError(err, "account "+accountID+" not found")
	}
	return &acc, nil
}

// FindAccountsByIDs returns the accounts that exist among accountIDs, keyed by id.
func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(accountIDs)), ", ")
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}

	rows, err := r.q.QueryContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id IN ("+placeholders+") ORDER BY id", args...)
	if err != nil {
		return nil, wrapError(err, "failed to query accounts")
	}
	defer rows.Close()
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrapError(err, "failed to scan account")
		}
		result[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "failed to iterate accounts")
	}
	return result, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY display_order, id")
	if err != nil {
		return nil, wrapError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrapError(err, "failed to scan account")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "failed to iterate accounts")
	}
	return accounts, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO accounts ("+accountColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.AccountID, m.Name, m.Balance, m.CurrencyCode, m.Hidden, m.DisplayOrder,
		toUnixNanos(m.CreatedAt), toUnixNanos(m.LastUpdatedAt),
	)
	return wrapError(err, "failed to save account "+account.AccountID)
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE accounts SET name = ?, hidden = ?, display_order = ?, last_updated_at = ? WHERE id = ?",
		account.Name, account.Hidden, account.DisplayOrder, toUnixNanos(account.LastUpdatedAt), account.AccountID,
	)
	if err != nil {
		return wrapError(err, "failed to update account "+account.AccountID)
	}
	return expectOneRow(res, "account "+account.AccountID+" not found")
}

// deleteAccount must run inside a transaction so that the reference check and
// the delete see the same snapshot.
func (r *accountRepository) deleteAccount(ctx context.Context, accountID string) error {
	var refs int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM operations WHERE account_id = ? OR to_account_id = ?", accountID, accountID,
	).Scan(&refs)
	if err != nil {
		return wrapError(err, "failed to count operations of account "+accountID)
	}
	if refs > 0 {
		return apperrors.NewReferentialIntegrityError("account " + accountID + " is still referenced by operations")
	}

	res, err := r.q.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", accountID)
	if err != nil {
		return wrapError(err, "failed to delete account "+accountID)
	}
	return expectOneRow(res, "account "+accountID+" not found")
}

// setAccountBalances writes absolute balances. Balances are stored as decimal
// text, so the arithmetic happens in Go on rows read inside the same transaction.
func (r *accountRepository) setAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, now time.Time) error {
	for id, balance := range balances {
		res, err := r.q.ExecContext(ctx,
			"UPDATE accounts SET balance = ?, last_updated_at = ? WHERE id = ?",
			balance, toUnixNanos(now), id,
		)
		if err != nil {
			return wrapError(err, "failed to update balance of account "+id)
		}
		if err := expectOneRow(res, "account "+id+" not found"); err != nil {
			return apperrors.NewReferentialIntegrityError("account " + id + " vanished during the balance update")
		}
	}
	return nil
}
