package services

import (
	"context"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferReconcilerSvc keeps amount, exchange rate and destination amount of a
// multi-currency transfer consistent.
type TransferReconcilerSvc interface {
	Reconcile(ctx context.Context, draft domain.TransferDraft) (domain.TransferDraft, error)
}

// ExchangeRateSvc exposes the offline rate table.
type ExchangeRateSvc interface {
	GetExchangeRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	ExchangeRatesLastUpdated() time.Time
}
