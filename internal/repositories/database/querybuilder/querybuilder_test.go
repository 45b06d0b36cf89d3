package querybuilder

import (
	"testing"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmptyQueryHasNoWhereClause(t *testing.T) {
	q := New(SQLite).Filter(domain.Filter{})
	assert.Equal(t, "", q.WhereClause())
	assert.Empty(t, q.Args())
}

func TestPostgresPlaceholdersAreNumbered(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	q := New(Postgres).
		DateBetween(start, end).
		Filter(domain.Filter{
			Types:      []domain.OperationType{domain.Expense},
			AccountIDs: []string{"acc-1"},
			SearchText: " Coffee ",
		})

	assert.Equal(t,
		" WHERE op_date >= $1 AND op_date <= $2 AND type IN ($3)"+
			" AND (account_id IN ($4) OR to_account_id IN ($5))"+
			" AND strpos(lower(description), lower($6)) > 0",
		q.WhereClause())
	assert.Equal(t, []any{start, end, "expense", "acc-1", "acc-1", "Coffee"}, q.Args())
}

func TestSQLiteBindsDatesAsTextAndAmountsAsReal(t *testing.T) {
	day := time.Date(2024, 2, 29, 15, 30, 0, 0, time.UTC)
	lo := decimal.RequireFromString("10.50")

	q := New(SQLite).
		DateBefore(day).
		Filter(domain.Filter{
			CategoryIDs: []string{"food", "food-groceries"},
			AmountRange: domain.AmountRange{Min: &lo},
		})

	assert.Equal(t,
		" WHERE op_date < ? AND category_id IN (?, ?) AND CAST(amount AS REAL) >= ?",
		q.WhereClause())
	assert.Equal(t, []any{"2024-02-29", "food", "food-groceries", 10.5}, q.Args())
}
