package domain

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange bounds operation dates, both ends inclusive. Nil means open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r DateRange) IsEmpty() bool { return r.Start == nil && r.End == nil }

// AmountRange bounds operation amounts, both ends inclusive. Nil means open.
type AmountRange struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r AmountRange) IsEmpty() bool { return r.Min == nil && r.Max == nil }

// Filter is the compound filter applied to the operation log. The zero value matches everything.
type Filter struct {
	Types       []OperationType `json:"types,omitempty"`
	AccountIDs  []string        `json:"accountIDs,omitempty"`
	CategoryIDs []string        `json:"categoryIDs,omitempty"`
	SearchText  string          `json:"searchText,omitempty"`
	DateRange   DateRange       `json:"dateRange"`
	AmountRange AmountRange     `json:"amountRange"`
}

// IsActive reports whether any field of the filter is populated.
func (f Filter) IsActive() bool {
	return f.ActiveFilterCount() > 0
}

// ActiveFilterCount counts populated field groups: types, accounts, categories,
// search text, date range and amount range.
func (f Filter) ActiveFilterCount() int {
	count := 0
	if len(f.Types) > 0 {
		count++
	}
	if len(f.AccountIDs) > 0 {
		count++
	}
	if len(f.CategoryIDs) > 0 {
		count++
	}
	if strings.TrimSpace(f.SearchText) != "" {
		count++
	}
	if !f.DateRange.IsEmpty() {
		count++
	}
	if !f.AmountRange.IsEmpty() {
		count++
	}
	return count
}

// Normalize returns a canonical copy: sets are sorted and deduplicated, search
// text is trimmed and date bounds are reduced to calendar dates.
func (f Filter) Normalize() Filter {
	out := Filter{
		AccountIDs:  dedupSorted(f.AccountIDs),
		CategoryIDs: dedupSorted(f.CategoryIDs),
		SearchText:  strings.TrimSpace(f.SearchText),
		AmountRange: f.AmountRange,
	}
	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		for _, t := range dedupSorted(types) {
			out.Types = append(out.Types, OperationType(t))
		}
	}
	if f.DateRange.Start != nil {
		start := NormalizeDate(*f.DateRange.Start)
		out.DateRange.Start = &start
	}
	if f.DateRange.End != nil {
		end := NormalizeDate(*f.DateRange.End)
		out.DateRange.End = &end
	}
	return out
}

// Matches evaluates the filter against a single operation in memory. It must
// agree with the SQL rendition used by the stores. CategoryIDs are expected to
// be already expanded to descendants.
func (f Filter) Matches(op Operation) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, op.Type) {
		return false
	}
	if len(f.AccountIDs) > 0 &&
		!slices.Contains(f.AccountIDs, op.AccountID) &&
		(op.ToAccountID == "" || !slices.Contains(f.AccountIDs, op.ToAccountID)) {
		return false
	}
	if len(f.CategoryIDs) > 0 && (op.CategoryID == "" || !slices.Contains(f.CategoryIDs, op.CategoryID)) {
		return false
	}
	if text := strings.TrimSpace(f.SearchText); text != "" &&
		!strings.Contains(strings.ToLower(op.Description), strings.ToLower(text)) {
		return false
	}
	date := NormalizeDate(op.Date)
	if f.DateRange.Start != nil && date.Before(NormalizeDate(*f.DateRange.Start)) {
		return false
	}
	if f.DateRange.End != nil && date.After(NormalizeDate(*f.DateRange.End)) {
		return false
	}
	if f.AmountRange.Min != nil && op.Amount.LessThan(*f.AmountRange.Min) {
		return false
	}
	if f.AmountRange.Max != nil && op.Amount.GreaterThan(*f.AmountRange.Max) {
		return false
	}
	return true
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
