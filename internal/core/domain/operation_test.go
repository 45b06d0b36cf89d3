package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOperation_BalanceEffects(t *testing.T) {
	tests := []struct {
		name string
		op   domain.Operation
		want map[string]string
	}{
		{
			name: "expense debits the source account",
			op:   domain.Operation{Type: domain.Expense, Amount: decimal.RequireFromString("50.00"), AccountID: "acc_1"},
			want: map[string]string{"acc_1": "-50"},
		},
		{
			name: "income credits the source account",
			op:   domain.Operation{Type: domain.Income, Amount: decimal.RequireFromString("12.5"), AccountID: "acc_1"},
			want: map[string]string{"acc_1": "12.5"},
		},
		{
			name: "single currency transfer moves the same amount",
			op: domain.Operation{
				Type: domain.Transfer, Amount: decimal.RequireFromString("100"),
				AccountID: "acc_1", ToAccountID: "acc_2",
			},
			want: map[string]string{"acc_1": "-100", "acc_2": "100"},
		},
		{
			name: "multi currency transfer credits the destination amount",
			op: domain.Operation{
				Type: domain.Transfer, Amount: decimal.RequireFromString("100"),
				AccountID: "acc_usd", ToAccountID: "acc_eur",
				ExchangeRate:        decimalPtr(decimal.RequireFromString("0.92")),
				DestinationAmount:   decimalPtr(decimal.RequireFromString("92.00")),
				SourceCurrency:      "USD",
				DestinationCurrency: "EUR",
			},
			want: map[string]string{"acc_usd": "-100", "acc_eur": "92"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op.BalanceEffects()
			assert.Len(t, got, len(tt.want))
			for accountID, want := range tt.want {
				assert.True(t, decimal.RequireFromString(want).Equal(got[accountID]), "account %s: got %s want %s", accountID, got[accountID], want)
			}
		})
	}
}

func TestOperation_IsMultiCurrency(t *testing.T) {
	dest := decimal.RequireFromString("92")
	assert.False(t, domain.Operation{Type: domain.Expense, SourceCurrency: "USD", DestinationCurrency: "EUR", DestinationAmount: &dest}.IsMultiCurrency())
	assert.False(t, domain.Operation{Type: domain.Transfer, SourceCurrency: "USD", DestinationCurrency: "USD", DestinationAmount: &dest}.IsMultiCurrency())
	assert.False(t, domain.Operation{Type: domain.Transfer, SourceCurrency: "USD", DestinationCurrency: "EUR"}.IsMultiCurrency())
	assert.True(t, domain.Operation{Type: domain.Transfer, SourceCurrency: "USD", DestinationCurrency: "EUR", DestinationAmount: &dest}.IsMultiCurrency())
}

func TestOperationPatch_Apply(t *testing.T) {
	rate := decimal.RequireFromString("0.92")
	dest := decimal.RequireFromString("92")
	transfer := domain.Operation{
		OperationID: "op_1", Type: domain.Transfer, Amount: decimal.NewFromInt(100),
		AccountID: "acc_1", ToAccountID: "acc_2", ExchangeRate: &rate, DestinationAmount: &dest,
		SourceCurrency: "USD", DestinationCurrency: "EUR",
		Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("switching to expense drops transfer fields", func(t *testing.T) {
		newType := domain.Expense
		category := "cat_food"
		got := domain.OperationPatch{Type: &newType, CategoryID: &category}.Apply(transfer)
		assert.Equal(t, domain.Expense, got.Type)
		assert.Equal(t, "cat_food", got.CategoryID)
		assert.Empty(t, got.ToAccountID)
		assert.Nil(t, got.ExchangeRate)
		assert.Nil(t, got.DestinationAmount)
		assert.Empty(t, got.SourceCurrency)
	})

	t.Run("date is normalized and the original is untouched", func(t *testing.T) {
		date := time.Date(2026, 10, 3, 17, 45, 0, 0, time.UTC)
		got := domain.OperationPatch{Date: &date}.Apply(transfer)
		assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), got.Date)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), transfer.Date)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, domain.OperationPatch{}.IsEmpty())
		amount := decimal.NewFromInt(1)
		assert.False(t, domain.OperationPatch{Amount: &amount}.IsEmpty())
	})
}

func TestWeekOffsetRange(t *testing.T) {
	today := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	start, end := domain.WeekOffsetRange(today, 0)
	assert.Equal(t, time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, today, end)

	start, end = domain.WeekOffsetRange(today, 2)
	assert.Equal(t, time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestExpandCategoryIDs(t *testing.T) {
	categories := []domain.Category{
		{CategoryID: "food", Type: domain.ExpenseCategory},
		{CategoryID: "food.restaurants", ParentID: "food", Type: domain.ExpenseCategory},
		{CategoryID: "food.restaurants.sushi", ParentID: "food.restaurants", Type: domain.ExpenseCategory},
		{CategoryID: "salary", Type: domain.IncomeCategory},
	}

	assert.Equal(t,
		[]string{"food", "food.restaurants", "food.restaurants.sushi"},
		domain.ExpandCategoryIDs(categories, []string{"food"}))
	assert.Equal(t, []string{"salary", "unknown"}, domain.ExpandCategoryIDs(categories, []string{"unknown", "salary"}))
	assert.Nil(t, domain.ExpandCategoryIDs(categories, nil))
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestCompareLogOrder(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	early := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	newerDay := domain.Operation{OperationID: "a", Date: day.AddDate(0, 0, 1)}
	laterInsert := domain.Operation{OperationID: "b", Date: day, AuditFields: domain.AuditFields{CreatedAt: late}}
	earlierInsertHighID := domain.Operation{OperationID: "d", Date: day, AuditFields: domain.AuditFields{CreatedAt: early}}
	earlierInsertLowID := domain.Operation{OperationID: "c", Date: day, AuditFields: domain.AuditFields{CreatedAt: early}}

	assert.Negative(t, domain.CompareLogOrder(newerDay, laterInsert))
	assert.Negative(t, domain.CompareLogOrder(laterInsert, earlierInsertHighID))
	assert.Negative(t, domain.CompareLogOrder(earlierInsertHighID, earlierInsertLowID))
	assert.Positive(t, domain.CompareLogOrder(earlierInsertLowID, newerDay))
	assert.Zero(t, domain.CompareLogOrder(laterInsert, laterInsert))
}
