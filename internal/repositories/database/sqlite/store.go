// Package sqlite implements the ledger store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
)

// Store is the SQLite ledger store.
type Store struct {
	BaseRepository
	*operationRepository
	*accountRepository
	*categoryRepository
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		BaseRepository:      BaseRepository{DB: db},
		operationRepository: &operationRepository{q: db},
		accountRepository:   &accountRepository{q: db},
		categoryRepository:  &categoryRepository{q: db},
	}
}

// WithinTx runs fn inside one IMMEDIATE transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback(tx)
			panic(p)
		}
	}()

	if err := fn(newLedgerTx(tx)); err != nil {
		if rbErr := s.Rollback(tx); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	return s.Commit(tx)
}

// DeleteAccount checks for referencing operations and deletes in one transaction.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(tx)

	if err := (&accountRepository{q: tx}).deleteAccount(ctx, accountID); err != nil {
		return err
	}
	return s.Commit(tx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}
