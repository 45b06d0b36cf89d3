package services_test

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// testToday is the fixed "now" used by the service tests.
var testToday = time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

func day(offset int) time.Time {
	return domain.AddDays(testToday, offset)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var testCategories = []domain.Category{
	{CategoryID: "food", Name: "Food", Type: domain.ExpenseCategory},
	{CategoryID: "food-groceries", Name: "Groceries", Type: domain.ExpenseCategory, ParentID: "food"},
	{CategoryID: "food-restaurants", Name: "Restaurants", Type: domain.ExpenseCategory, ParentID: "food"},
	{CategoryID: "transport", Name: "Transport", Type: domain.ExpenseCategory},
	{CategoryID: "salary", Name: "Salary", Type: domain.IncomeCategory},
	{CategoryID: domain.BalanceAdjustmentIncomeCategoryID, Name: "Balance adjustment", Type: domain.IncomeCategory, IsShadow: true},
	{CategoryID: domain.BalanceAdjustmentExpenseCategoryID, Name: "Balance adjustment", Type: domain.ExpenseCategory, IsShadow: true},
}

// memStore is an in-memory LedgerStore. Transactions are serialized and roll
// back to a snapshot on error; plain reads never wait for a transaction.
type memStore struct {
	txMu sync.Mutex

	mu         sync.Mutex
	operations map[string]domain.Operation
	accounts   map[string]domain.Account
	categories map[string]domain.Category
	seq        int

	readErr    error      // returned by every operation query while set
	balanceErr error      // returned by UpdateAccountBalances while set
	readHook   func()     // runs once, at the start of the next operation query
	lockHook   func()     // runs once, before the next account lock is taken
	lockLog    [][]string // account ids passed to FindAccountsByIDsForUpdate
}

var _ portsrepo.LedgerStore = (*memStore)(nil)

func newMemStore() *memStore {
	s := &memStore{
		operations: make(map[string]domain.Operation),
		accounts:   make(map[string]domain.Account),
		categories: make(map[string]domain.Category),
	}
	for _, c := range testCategories {
		s.categories[c.CategoryID] = c
	}
	return s
}

func (s *memStore) addAccount(id, currencyCode, balance string) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := domain.Account{AccountID: id, Name: id, CurrencyCode: currencyCode, Balance: dec(balance)}
	s.accounts[id] = acc
	return acc
}

// addOperation stores op directly, without touching balances.
func (s *memStore) addOperation(op domain.Operation) domain.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if op.OperationID == "" {
		op.OperationID = fmt.Sprintf("op-%04d", s.seq)
	}
	op.Date = domain.NormalizeDate(op.Date)
	if op.CreatedAt.IsZero() {
		op.CreatedAt = testToday.Add(time.Duration(s.seq) * time.Second)
	}
	s.operations[op.OperationID] = op
	return op
}

func (s *memStore) balance(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].Balance
}

func (s *memStore) operationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.operations)
}

func (s *memStore) setReadErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

func (s *memStore) setReadHook(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readHook = hook
}

func (s *memStore) setLockHook(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockHook = hook
}

// setBalance overwrites a stored balance, standing in for a write committed elsewhere.
func (s *memStore) setBalance(id, balance string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[id]
	acc.Balance = dec(balance)
	s.accounts[id] = acc
}

// beginRead fires the pending read hook and reports the injected read error.
func (s *memStore) beginRead() error {
	s.mu.Lock()
	hook := s.readHook
	s.readHook = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr
}

func (s *memStore) sortedMatching(keep func(domain.Operation) bool) []domain.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Operation
	for _, op := range s.operations {
		if keep(op) {
			out = append(out, op)
		}
	}
	slices.SortFunc(out, domain.CompareLogOrder)
	return out
}

// --- OperationReader ---

func (s *memStore) FindOperationByID(_ context.Context, operationID string) (*domain.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.operations[operationID]
	if !ok {
		return nil, apperrors.NewNotFoundError("operation " + operationID + " not found")
	}
	return &op, nil
}

func (s *memStore) GetOperationsByWeekOffset(ctx context.Context, today time.Time, n int, filter domain.Filter) ([]domain.Operation, error) {
	start, end := domain.WeekOffsetRange(today, n)
	return s.GetOperationsByDateRange(ctx, start, end, filter)
}

func (s *memStore) GetOperationsByDateRange(_ context.Context, start, end time.Time, filter domain.Filter) ([]domain.Operation, error) {
	if err := s.beginRead(); err != nil {
		return nil, err
	}
	start, end = domain.NormalizeDate(start), domain.NormalizeDate(end)
	return s.sortedMatching(func(op domain.Operation) bool {
		return !op.Date.Before(start) && !op.Date.After(end) && filter.Matches(op)
	}), nil
}

func (s *memStore) GetNextOldestOperation(_ context.Context, beforeDate time.Time, filter domain.Filter) (*domain.Operation, error) {
	if err := s.beginRead(); err != nil {
		return nil, err
	}
	before := domain.NormalizeDate(beforeDate)
	ops := s.sortedMatching(func(op domain.Operation) bool {
		return op.Date.Before(before) && filter.Matches(op)
	})
	if len(ops) == 0 {
		return nil, apperrors.NewNotFoundError("no older operation")
	}
	return &ops[0], nil
}

func (s *memStore) GetNextNewestOperation(_ context.Context, afterDate time.Time, filter domain.Filter) (*domain.Operation, error) {
	if err := s.beginRead(); err != nil {
		return nil, err
	}
	after := domain.NormalizeDate(afterDate)
	ops := s.sortedMatching(func(op domain.Operation) bool {
		return op.Date.After(after) && filter.Matches(op)
	})
	if len(ops) == 0 {
		return nil, apperrors.NewNotFoundError("no newer operation")
	}
	return &ops[len(ops)-1], nil
}

// --- Accounts ---

func (s *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return &acc, nil
}

func (s *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (s *memStore) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Collect(maps.Values(s.accounts))
	slices.SortFunc(out, func(a, b domain.Account) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return strings.Compare(a.AccountID, b.AccountID)
	})
	return out, nil
}

func (s *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return apperrors.NewAppError(http.StatusConflict, "account already exists", apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	stored.Name = account.Name
	stored.Hidden = account.Hidden
	stored.DisplayOrder = account.DisplayOrder
	stored.LastUpdatedAt = account.LastUpdatedAt
	s.accounts[account.AccountID] = stored
	return nil
}

func (s *memStore) DeleteAccount(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	for _, op := range s.operations {
		if op.AccountID == accountID || op.ToAccountID == accountID {
			return apperrors.NewReferentialIntegrityError("account is referenced by operations")
		}
	}
	delete(s.accounts, accountID)
	return nil
}

// --- Categories ---

func (s *memStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Collect(maps.Values(s.categories))
	slices.SortFunc(out, func(a, b domain.Category) int { return strings.Compare(a.CategoryID, b.CategoryID) })
	return out, nil
}

func (s *memStore) FindCategoryByID(_ context.Context, categoryID string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("category not found")
	}
	return &c, nil
}

// --- Transactions ---

func (s *memStore) WithinTx(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	operations := maps.Clone(s.operations)
	accounts := maps.Clone(s.accounts)
	s.mu.Unlock()

	if err := fn(&memTx{store: s}); err != nil {
		s.mu.Lock()
		s.operations = operations
		s.accounts = accounts
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) Close() error { return nil }

type memTx struct {
	store *memStore
}

func (t *memTx) FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	return t.store.FindOperationByID(ctx, operationID)
}

func (t *memTx) InsertOperation(_ context.Context, op domain.Operation) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if _, ok := t.store.operations[op.OperationID]; ok {
		return apperrors.NewAppError(http.StatusConflict, "operation already exists", apperrors.ErrDuplicate)
	}
	t.store.operations[op.OperationID] = op
	return nil
}

func (t *memTx) UpdateOperation(_ context.Context, op domain.Operation) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if _, ok := t.store.operations[op.OperationID]; !ok {
		return apperrors.NewNotFoundError("operation not found")
	}
	t.store.operations[op.OperationID] = op
	return nil
}

func (t *memTx) DeleteOperation(_ context.Context, operationID string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if _, ok := t.store.operations[operationID]; !ok {
		return apperrors.NewNotFoundError("operation not found")
	}
	delete(t.store.operations, operationID)
	return nil
}

func (t *memTx) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return t.store.FindCategoryByID(ctx, categoryID)
}

func (t *memTx) FindAccountsByIDsForUpdate(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	t.store.mu.Lock()
	hook := t.store.lockHook
	t.store.lockHook = nil
	t.store.mu.Unlock()
	if hook != nil {
		hook()
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.lockLog = append(t.store.lockLog, slices.Clone(accountIDs))
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		acc, ok := t.store.accounts[id]
		if !ok {
			return nil, apperrors.NewReferentialIntegrityError("account " + id + " does not exist")
		}
		out[id] = acc
	}
	return out, nil
}

func (t *memTx) UpdateAccountBalances(_ context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.balanceErr != nil {
		return t.store.balanceErr
	}
	for id, delta := range balanceChanges {
		acc, ok := t.store.accounts[id]
		if !ok {
			return apperrors.NewReferentialIntegrityError("account " + id + " does not exist")
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.LastUpdatedAt = now
		t.store.accounts[id] = acc
	}
	return nil
}

// --- Preferences ---

type memPrefs struct {
	mu     sync.Mutex
	values map[string][]byte
	setErr error
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string][]byte)}
}

func (p *memPrefs) Get(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("preference " + key + " not found")
	}
	return slices.Clone(v), nil
}

func (p *memPrefs) Set(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.setErr != nil {
		return p.setErr
	}
	p.values[key] = slices.Clone(value)
	return nil
}

// --- Rates ---

type staticRates map[string]decimal.Decimal

func (r staticRates) GetExchangeRate(from, to string) (decimal.Decimal, bool) {
	rate, ok := r[strings.ToUpper(from)+"/"+strings.ToUpper(to)]
	return rate, ok
}

func (r staticRates) GetExchangeRatesLastUpdated() time.Time {
	return testToday.AddDate(0, 0, -1)
}

// --- Observers ---

type recordingObserver struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (o *recordingObserver) OperationsChanged(_ context.Context, event domain.ChangeEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) recorded() []domain.ChangeEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.events)
}
