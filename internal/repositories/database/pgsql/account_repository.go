package pgsql

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/models"
	"github.com/SscSPs/operations_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = "id, name, balance, currency, hidden, display_order, created_at, last_updated_at"

type accountRepository struct {
	q querier
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	if err := row.Scan(&m.AccountID, &m.Name, &m.Balance, &m.CurrencyCode, &m.Hidden, &m.DisplayOrder, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := scanAccount(r.q.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", accountID))
	if err != nil {
		return nil, wrapError(err, "account "+accountID+" not found")
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.findByIDs(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ANY($1) ORDER BY id", accountIDs)
}

// findAccountsByIDsForUpdate locks the rows in ascending id order so that two
// transfers touching the same pair of accounts cannot deadlock.
func (r *accountRepository) findAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.findByIDs(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE", accountIDs)
}

func (r *accountRepository) findByIDs(ctx context.Context, query string, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	rows, err := r.q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, wrapError(err, "failed to query accounts by IDs")
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
	rows, err := r.q.Query(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY display_order, id")
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
	_, err := r.q.Exec(ctx,
		"INSERT INTO accounts ("+accountColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		m.AccountID, m.Name, m.Balance, m.CurrencyCode, m.Hidden, m.DisplayOrder, m.CreatedAt, m.LastUpdatedAt,
	)
	return wrapError(err, "failed to save account "+account.AccountID)
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	tag, err := r.q.Exec(ctx,
		"UPDATE accounts SET name = $2, hidden = $3, display_order = $4, last_updated_at = $5 WHERE id = $1",
		account.AccountID, account.Name, account.Hidden, account.DisplayOrder, account.LastUpdatedAt,
	)
	if err != nil {
		return wrapError(err, "failed to update account "+account.AccountID)
	}
	return expectOneRow(tag, "account "+account.AccountID+" not found")
}

func (r *accountRepository) deleteAccount(ctx context.Context, accountID string) error {
	var refs int
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM operations WHERE account_id = $1 OR to_account_id = $1", accountID,
	).Scan(&refs)
	if err != nil {
		return wrapError(err, "failed to count operations of account "+accountID)
	}
	if refs > 0 {
		return apperrors.NewReferentialIntegrityError("account " + accountID + " is still referenced by operations")
	}

	tag, err := r.q.Exec(ctx, "DELETE FROM accounts WHERE id = $1", accountID)
	if err != nil {
		return wrapError(err, "failed to delete account "+accountID)
	}
	return expectOneRow(tag, "account "+accountID+" not found")
}
