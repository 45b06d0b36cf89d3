// Package pgsql implements the ledger store on PostgreSQL through pgx.
package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL ledger store.
type Store struct {
	BaseRepository
	*operationRepository
	*accountRepository
	*categoryRepository
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// NewStore wraps a connected pool whose schema is migrated.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		BaseRepository:      BaseRepository{Pool: pool},
		operationRepository: &operationRepository{q: pool},
		accountRepository:   &accountRepository{q: pool},
		categoryRepository:  &categoryRepository{q: pool},
	}
}

// WithinTx runs fn inside one transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(newLedgerTx(tx)); err != nil {
		if rbErr := s.Rollback(ctx, tx); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	return s.Commit(ctx, tx)
}

// DeleteAccount checks for referencing operations and deletes in one transaction.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx)

	if err := (&accountRepository{q: tx}).deleteAccount(ctx, accountID); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.Pool.Close()
	return nil
}
