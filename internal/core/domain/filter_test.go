package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFilter_ActiveFilterCount(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	min := decimal.NewFromInt(10)

	tests := []struct {
		name   string
		filter domain.Filter
		want   int
	}{
		{name: "empty filter", filter: domain.Filter{}, want: 0},
		{name: "whitespace search is not active", filter: domain.Filter{SearchText: "   "}, want: 0},
		{name: "types only", filter: domain.Filter{Types: []domain.OperationType{domain.Expense}}, want: 1},
		{
			name: "all six groups",
			filter: domain.Filter{
				Types:       []domain.OperationType{domain.Expense, domain.Income},
				AccountIDs:  []string{"a", "b"},
				CategoryIDs: []string{"c"},
				SearchText:  "coffee",
				DateRange:   domain.DateRange{Start: &start},
				AmountRange: domain.AmountRange{Min: &min},
			},
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.ActiveFilterCount())
			assert.Equal(t, tt.want > 0, tt.filter.IsActive())
		})
	}
}

func TestFilter_Normalize(t *testing.T) {
	end := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	f := domain.Filter{
		Types:      []domain.OperationType{domain.Income, domain.Expense, domain.Income},
		AccountIDs: []string{"b", "a", "b", " "},
		SearchText: "  Coffee ",
		DateRange:  domain.DateRange{End: &end},
	}

	got := f.Normalize()
	assert.Equal(t, []domain.OperationType{domain.Expense, domain.Income}, got.Types)
	assert.Equal(t, []string{"a", "b"}, got.AccountIDs)
	assert.Nil(t, got.CategoryIDs)
	assert.Equal(t, "Coffee", got.SearchText)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), *got.DateRange.End)
	assert.Equal(t, got, got.Normalize())
}

func TestFilter_Matches(t *testing.T) {
	day := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	expense := domain.Operation{
		OperationID: "op_1", Type: domain.Expense, Amount: decimal.RequireFromString("42.50"),
		AccountID: "acc_cash", CategoryID: "cat_food", Date: day, Description: "Morning Coffee",
	}
	transfer := domain.Operation{
		OperationID: "op_2", Type: domain.Transfer, Amount: decimal.NewFromInt(100),
		AccountID: "acc_bank", ToAccountID: "acc_cash", Date: day,
	}
	before := day.AddDate(0, 0, -1)
	after := day.AddDate(0, 0, 1)
	low := decimal.NewFromInt(50)

	assert.True(t, domain.Filter{}.Matches(expense))
	assert.True(t, domain.Filter{Types: []domain.OperationType{domain.Expense}}.Matches(expense))
	assert.False(t, domain.Filter{Types: []domain.OperationType{domain.Income}}.Matches(expense))
	assert.True(t, domain.Filter{AccountIDs: []string{"acc_cash"}}.Matches(transfer), "incoming transfer leg matches the account filter")
	assert.False(t, domain.Filter{AccountIDs: []string{"acc_other"}}.Matches(transfer))
	assert.False(t, domain.Filter{CategoryIDs: []string{"cat_food"}}.Matches(transfer), "transfers carry no category")
	assert.True(t, domain.Filter{SearchText: "coffee"}.Matches(expense))
	assert.False(t, domain.Filter{SearchText: "tea"}.Matches(expense))
	assert.True(t, domain.Filter{DateRange: domain.DateRange{Start: &day, End: &day}}.Matches(expense))
	assert.False(t, domain.Filter{DateRange: domain.DateRange{Start: &after}}.Matches(expense))
	assert.False(t, domain.Filter{DateRange: domain.DateRange{End: &before}}.Matches(expense))
	assert.False(t, domain.Filter{AmountRange: domain.AmountRange{Min: &low}}.Matches(expense))
	assert.True(t, domain.Filter{AmountRange: domain.AmountRange{Max: &low}}.Matches(expense))
}
