package services

import (
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ...Option) *portssvc.ServiceContainer {
	notifier := NewNotifier()

	// The window follows committed ledger mutations.
	window := NewOperationWindow(repos.Ledger, repos.Ledger, opts...)
	notifier.Subscribe(window)

	ledger := NewLedgerService(repos.Ledger, notifier, opts...)

	return &portssvc.ServiceContainer{
		Ledger:       ledger,
		Window:       window,
		Filters:      NewFilterService(repos.Preferences, window, opts...),
		Transfers:    NewTransferReconciler(repos.Ledger, repos.Rates, opts...),
		Account:      NewAccountService(repos.Ledger, repos.Preferences, ledger, opts...),
		Category:     NewCategoryService(repos.Ledger, opts...),
		ExchangeRate: NewExchangeRateService(repos.Rates, opts...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
	_ portssvc.TransferReconcilerSvc = (*transferReconciler)(nil)
)
