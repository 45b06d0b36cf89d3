package dto

import (
	"time"
)

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	FromCurrencyCode string    `json:"fromCurrencyCode"`
	ToCurrencyCode   string    `json:"toCurrencyCode"`
	Rate             string    `json:"rate"` // currency.RatePlaces digits
	LastUpdated      time.Time `json:"lastUpdated"`
}
