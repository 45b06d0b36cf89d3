package repositories

import "io"

// LedgerStore is the durable operation and account store.
type LedgerStore interface {
	OperationReader
	AccountRepositoryFacade
	CategoryReader
	TransactionManager
	io.Closer
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Ledger      LedgerStore
	Preferences PreferencesStore
	Rates       ExchangeRateTable
}
