package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type exchangeRateService struct {
	BaseService
	rates portsrepo.ExchangeRateTable
}

// NewExchangeRateService creates a service over the offline rate table.
func NewExchangeRateService(rates portsrepo.ExchangeRateTable, opts ...Option) *exchangeRateService {
	return &exchangeRateService{BaseService: newBaseService(opts...), rates: rates}
}

var _ portssvc.ExchangeRateSvc = (*exchangeRateService)(nil)

// GetExchangeRate returns the rate converting one unit of from into to.
func (s *exchangeRateService) GetExchangeRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if len(from) != 3 || len(to) != 3 {
		return decimal.Zero, apperrors.NewValidationError("currency codes must have 3 letters")
	}

	rate, ok := s.rates.GetExchangeRate(from, to)
	if !ok {
		s.LogDebug(ctx, "Exchange rate not found", slog.String("from", from), slog.String("to", to))
		return decimal.Zero, apperrors.NewNotFoundError(fmt.Sprintf("no exchange rate from %s to %s", from, to))
	}
	return rate, nil
}

func (s *exchangeRateService) ExchangeRatesLastUpdated() time.Time {
	return s.rates.GetExchangeRatesLastUpdated()
}
