package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/handlers"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/SscSPs/operations_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateOperation(ctx context.Context, op domain.Operation) (*domain.Operation, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}
func (m *MockLedgerService) UpdateOperation(ctx context.Context, operationID string, patch domain.OperationPatch) (*domain.Operation, error) {
	args := m.Called(ctx, operationID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}
func (m *MockLedgerService) DeleteOperation(ctx context.Context, operationID string) error {
	args := m.Called(ctx, operationID)
	return args.Error(0)
}
func (m *MockLedgerService) ValidateOperation(ctx context.Context, op domain.Operation) string {
	args := m.Called(ctx, op)
	return args.String(0)
}
func (m *MockLedgerService) GetOperation(ctx context.Context, operationID string) (*domain.Operation, error) {
	args := m.Called(ctx, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock OperationWindow ---
type MockWindowService struct {
	mock.Mock
}

func (m *MockWindowService) LoadInitial(ctx context.Context, filter domain.Filter) error {
	return m.Called(ctx, filter).Error(0)
}
func (m *MockWindowService) LoadMoreOperations(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockWindowService) LoadNewerOperations(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockWindowService) JumpToDate(ctx context.Context, target time.Time) error {
	return m.Called(ctx, target).Error(0)
}
func (m *MockWindowService) State() domain.WindowState {
	return m.Called().Get(0).(domain.WindowState)
}

var _ portssvc.OperationWindowSvc = (*MockWindowService)(nil)

// --- Mock FilterService ---
type MockFilterService struct {
	mock.Mock
}

func (m *MockFilterService) UpdateFilters(ctx context.Context, filter domain.Filter) error {
	return m.Called(ctx, filter).Error(0)
}
func (m *MockFilterService) ClearFilters(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockFilterService) ActiveFilters() domain.Filter {
	return m.Called().Get(0).(domain.Filter)
}
func (m *MockFilterService) ActiveFilterCount() int {
	return m.Called().Int(0)
}
func (m *MockFilterService) Restore(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ portssvc.FilterSvc = (*MockFilterService)(nil)

// --- Mock TransferReconciler ---
type MockTransferReconciler struct {
	mock.Mock
}

func (m *MockTransferReconciler) Reconcile(ctx context.Context, draft domain.TransferDraft) (domain.TransferDraft, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.TransferDraft), args.Error(1)
}

var _ portssvc.TransferReconcilerSvc = (*MockTransferReconciler)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) DefaultAccount(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}
func (m *MockAccountService) MarkAccessed(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}
func (m *MockAccountService) EnsureDefaultAccounts(ctx context.Context, currency string) error {
	return m.Called(ctx, currency).Error(0)
}
func (m *MockAccountService) AdjustBalance(ctx context.Context, accountID string, target decimal.Decimal) (*domain.Operation, error) {
	args := m.Called(ctx, accountID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

var _ portssvc.CategorySvc = (*MockCategoryService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetExchangeRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockExchangeRateService) ExchangeRatesLastUpdated() time.Time {
	return m.Called().Get(0).(time.Time)
}

var _ portssvc.ExchangeRateSvc = (*MockExchangeRateService)(nil)

// mockServices bundles one mock per service and the router wired to them.
type mockServices struct {
	ledger    *MockLedgerService
	window    *MockWindowService
	filters   *MockFilterService
	transfers *MockTransferReconciler
	accounts  *MockAccountService
	category  *MockCategoryService
	rates     *MockExchangeRateService
	router    *gin.Engine
}

func newMockServices(cfg *config.Config, healthCheck handlers.HealthCheck) *mockServices {
	gin.SetMode(gin.TestMode)
	m := &mockServices{
		ledger:    new(MockLedgerService),
		window:    new(MockWindowService),
		filters:   new(MockFilterService),
		transfers: new(MockTransferReconciler),
		accounts:  new(MockAccountService),
		category:  new(MockCategoryService),
		rates:     new(MockExchangeRateService),
		router:    gin.New(),
	}
	container := &portssvc.ServiceContainer{
		Ledger:       m.ledger,
		Window:       m.window,
		Filters:      m.filters,
		Transfers:    m.transfers,
		Account:      m.accounts,
		Category:     m.category,
		ExchangeRate: m.rates,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(m.router, cfg, container, healthCheck)
	return m
}

func (m *mockServices) assertExpectations(t mock.TestingT) {
	m.ledger.AssertExpectations(t)
	m.window.AssertExpectations(t)
	m.filters.AssertExpectations(t)
	m.transfers.AssertExpectations(t)
	m.accounts.AssertExpectations(t)
	m.category.AssertExpectations(t)
	m.rates.AssertExpectations(t)
}

// do serves a request with an optional JSON body.
func (m *mockServices) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)
	return w
}

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
