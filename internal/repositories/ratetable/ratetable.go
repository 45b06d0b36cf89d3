// Package ratetable serves exchange rates from an offline YAML file.
//
// The file looks like:
//
//	updated: 2024-05-01T00:00:00Z
//	rates:
//	  USD:
//	    EUR: "0.92"
//	    GBP: "0.79"
package ratetable

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Updated time.Time                    `yaml:"updated"`
	Rates   map[string]map[string]string `yaml:"rates"`
}

// Table is an immutable rate table keyed by source then destination currency.
type Table struct {
	updated time.Time
	rates   map[string]map[string]decimal.Decimal
}

var _ portsrepo.ExchangeRateTable = (*Table)(nil)

// Load reads the table at path. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Table{rates: map[string]map[string]decimal.Decimal{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rate table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML rate table. Rates must be positive decimals.
func Parse(data []byte) (*Table, error) {
	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode rate table: %w", err)
	}

	t := &Table{updated: raw.Updated, rates: make(map[string]map[string]decimal.Decimal, len(raw.Rates))}
	for from, targets := range raw.Rates {
		from = normalize(from)
		if t.rates[from] == nil {
			t.rates[from] = make(map[string]decimal.Decimal, len(targets))
		}
		for to, value := range targets {
			rate, err := decimal.NewFromString(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid rate %s->%s %q: %w", from, to, value, err)
			}
			if !rate.IsPositive() {
				return nil, fmt.Errorf("rate %s->%s must be positive, got %s", from, to, value)
			}
			t.rates[from][normalize(to)] = rate
		}
	}
	return t, nil
}

// GetExchangeRate returns how many units of toCurrency one unit of fromCurrency
// buys. When only the reverse pair is stored its inverse is returned, rounded
// to the canonical rate precision.
func (t *Table) GetExchangeRate(fromCurrency, toCurrency string) (decimal.Decimal, bool) {
	from, to := normalize(fromCurrency), normalize(toCurrency)
	if from == "" || to == "" {
		return decimal.Zero, false
	}
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := t.rates[from][to]; ok {
		return rate, true
	}
	if reverse, ok := t.rates[to][from]; ok {
		return decimal.NewFromInt(1).DivRound(reverse, currency.RatePlaces), true
	}
	return decimal.Zero, false
}

// GetExchangeRatesLastUpdated returns the "updated" stamp of the file.
func (t *Table) GetExchangeRatesLastUpdated() time.Time {
	return t.updated
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
