package services

// ServiceContainer holds instances of all the application services.
// It is the entry point the handlers use to reach the ledger engine.
type ServiceContainer struct {
	Ledger       LedgerSvcFacade
	Window       OperationWindowSvc
	Filters      FilterSvc
	Transfers    TransferReconcilerSvc
	Account      AccountSvcFacade
	Category     CategorySvc
	ExchangeRate ExchangeRateSvc
}
