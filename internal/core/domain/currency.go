package domain

// Currency describes the formatting metadata of a currency code.
type Currency struct {
	CurrencyCode  string `json:"currencyCode"`  // e.g., "USD"
	Symbol        string `json:"symbol"`        // e.g., "$"
	DecimalPlaces int    `json:"decimalPlaces"` // e.g., 2 for USD, 0 for JPY
}
