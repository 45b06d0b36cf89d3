package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLedgerTx is a mock type for the LedgerTx interface
type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	args := m.Called(ctx, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}

func (m *MockLedgerTx) InsertOperation(ctx context.Context, op domain.Operation) error {
	return m.Called(ctx, op).Error(0)
}

func (m *MockLedgerTx) UpdateOperation(ctx context.Context, op domain.Operation) error {
	return m.Called(ctx, op).Error(0)
}

func (m *MockLedgerTx) DeleteOperation(ctx context.Context, operationID string) error {
	return m.Called(ctx, operationID).Error(0)
}

func (m *MockLedgerTx) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockLedgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerTx) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	return m.Called(ctx, balanceChanges, now).Error(0)
}

func deltasEqual(want map[string]string) func(map[string]decimal.Decimal) bool {
	return func(got map[string]decimal.Decimal) bool {
		if len(got) != len(want) {
			return false
		}
		for id, w := range want {
			if !got[id].Equal(decimal.RequireFromString(w)) {
				return false
			}
		}
		return true
	}
}

func TestBalanceReconciler_ApplyCreateTransfer(t *testing.T) {
	ctx := context.Background()
	tx := new(MockLedgerTx)
	reconciler := services.NewBalanceReconciler(services.WithClock(fixedClock))
	op := domain.Operation{
		Type: domain.Transfer, Amount: dec("100"), AccountID: "acc_z", ToAccountID: "acc_a",
		SourceCurrency: "USD", DestinationCurrency: "EUR", DestinationAmount: decPtr("92"),
	}

	tx.On("FindAccountsByIDsForUpdate", ctx, []string{"acc_a", "acc_z"}).Return(map[string]domain.Account{}, nil).Once()
	tx.On("UpdateAccountBalances", ctx, mock.MatchedBy(deltasEqual(map[string]string{"acc_z": "-100", "acc_a": "92"})), testToday).Return(nil).Once()

	assert.NoError(t, reconciler.ApplyCreate(ctx, tx, op))
	tx.AssertExpectations(t)
}

func TestBalanceReconciler_ApplyUpdateNetsDeltas(t *testing.T) {
	ctx := context.Background()
	tx := new(MockLedgerTx)
	reconciler := services.NewBalanceReconciler(services.WithClock(fixedClock))
	oldOp := domain.Operation{Type: domain.Expense, Amount: dec("30"), AccountID: "acc_1"}
	newOp := domain.Operation{Type: domain.Expense, Amount: dec("30"), AccountID: "acc_1", Description: "renamed"}

	// The account is locked, but a zero net delta is not written.
	tx.On("FindAccountsByIDsForUpdate", ctx, []string{"acc_1"}).Return(map[string]domain.Account{}, nil).Once()

	assert.NoError(t, reconciler.ApplyUpdate(ctx, tx, oldOp, newOp))
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "UpdateAccountBalances", mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceReconciler_ApplyDelete(t *testing.T) {
	ctx := context.Background()
	tx := new(MockLedgerTx)
	reconciler := services.NewBalanceReconciler(services.WithClock(fixedClock))
	op := domain.Operation{Type: domain.Income, Amount: dec("12.5"), AccountID: "acc_1"}

	tx.On("FindAccountsByIDsForUpdate", ctx, []string{"acc_1"}).Return(map[string]domain.Account{}, nil).Once()
	tx.On("UpdateAccountBalances", ctx, mock.MatchedBy(deltasEqual(map[string]string{"acc_1": "-12.5"})), testToday).Return(nil).Once()

	assert.NoError(t, reconciler.ApplyDelete(ctx, tx, op))
	tx.AssertExpectations(t)
}

func TestBalanceReconciler_MissingAccount(t *testing.T) {
	ctx := context.Background()
	tx := new(MockLedgerTx)
	reconciler := services.NewBalanceReconciler()

	tx.On("FindAccountsByIDsForUpdate", ctx, []string{"acc_gone"}).Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	err := reconciler.ApplyCreate(ctx, tx, domain.Operation{Type: domain.Expense, Amount: dec("1"), AccountID: "acc_gone"})

	assert.ErrorIs(t, err, apperrors.ErrReferentialIntegrity)
	tx.AssertNotCalled(t, "UpdateAccountBalances", mock.Anything, mock.Anything, mock.Anything)
}
