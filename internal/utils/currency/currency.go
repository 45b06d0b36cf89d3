// Package currency centralizes currency metadata and the rounding every
// amount-producing code path goes through.
package currency

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// DefaultDecimalPlaces is used for codes the ISO table does not know.
const DefaultDecimalPlaces = 2

// RatePlaces is the canonical precision of exchange rates.
const RatePlaces = 6

// Lookup returns the metadata of a currency code and whether the code is known.
func Lookup(code string) (domain.Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	c := money.GetCurrency(code)
	if c == nil {
		return domain.Currency{CurrencyCode: code, DecimalPlaces: DefaultDecimalPlaces}, false
	}
	return domain.Currency{CurrencyCode: c.Code, Symbol: c.Grapheme, DecimalPlaces: c.Fraction}, true
}

// IsKnown reports whether code is an ISO 4217 currency code.
func IsKnown(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// DecimalPlaces returns the number of minor-unit digits of a currency.
// Example: USD -> 2, JPY -> 0, KWD -> 3.
func DecimalPlaces(code string) int {
	c, _ := Lookup(code)
	return c.DecimalPlaces
}

// RoundForCurrency rounds an amount (half away from zero) to the currency's decimal places.
func RoundForCurrency(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(int32(DecimalPlaces(code)))
}

// FormatForCurrency renders an amount with exactly the currency's decimal places.
// Example: 12.3456 USD -> "12.35", 12.3456 JPY -> "12".
func FormatForCurrency(amount decimal.Decimal, code string) string {
	return amount.StringFixed(int32(DecimalPlaces(code)))
}

// RoundRate rounds an exchange rate to RatePlaces.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(RatePlaces)
}

// FormatRate renders an exchange rate with exactly RatePlaces digits.
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(RatePlaces)
}
