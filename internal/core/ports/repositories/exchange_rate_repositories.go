package repositories

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateTable is the offline rate table consulted by the transfer reconciler.
type ExchangeRateTable interface {
	// GetExchangeRate returns the rate converting one unit of from into to.
	GetExchangeRate(fromCurrency, toCurrency string) (decimal.Decimal, bool)

	// GetExchangeRatesLastUpdated returns when the table was last refreshed.
	GetExchangeRatesLastUpdated() time.Time
}
