package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDecimalPlaces(t *testing.T) {
	assert.Equal(t, 2, DecimalPlaces("USD"))
	assert.Equal(t, 2, DecimalPlaces("eur"))
	assert.Equal(t, 0, DecimalPlaces("JPY"))
	assert.Equal(t, 3, DecimalPlaces("KWD"))
	assert.Equal(t, DefaultDecimalPlaces, DecimalPlaces("XYZ1"))
}

func TestRoundForCurrency(t *testing.T) {
	amount := decimal.RequireFromString("12.3456")

	assert.Equal(t, "12.35", FormatForCurrency(RoundForCurrency(amount, "USD"), "USD"))
	assert.Equal(t, "12", FormatForCurrency(RoundForCurrency(amount, "JPY"), "JPY"))
	assert.Equal(t, "12.346", FormatForCurrency(amount, "KWD"))
	assert.Equal(t, "92.00", FormatForCurrency(decimal.RequireFromString("92"), "EUR"))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0.900000", FormatRate(decimal.RequireFromString("0.9")))
	assert.Equal(t, "1.234568", FormatRate(RoundRate(decimal.RequireFromString("1.2345675"))))
}

func TestLookup(t *testing.T) {
	c, ok := Lookup(" usd ")
	assert.True(t, ok)
	assert.Equal(t, "USD", c.CurrencyCode)
	assert.Equal(t, "$", c.Symbol)

	_, ok = Lookup("NOPE")
	assert.False(t, ok)
	assert.False(t, IsKnown(""))
}
