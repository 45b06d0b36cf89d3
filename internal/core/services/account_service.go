package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const lastAccessedAccountKey = "accounts.lastAccessed"

// balanceAdjuster records operations on the shadow balance adjustment categories.
type balanceAdjuster interface {
	AdjustBalance(ctx context.Context, accountID string, target decimal.Decimal) (*domain.Operation, error)
}

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	prefs       portsrepo.PreferencesStore
	adjuster    balanceAdjuster
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, prefs portsrepo.PreferencesStore, adjuster balanceAdjuster, opts ...Option) *accountService {
	return &accountService{
		BaseService: newBaseService(opts...),
		accountRepo: accountRepo,
		prefs:       prefs,
		adjuster:    adjuster,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount handles the business logic for creating a new account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if !currency.IsKnown(code) {
		return nil, apperrors.NewValidationError("unknown currency code " + req.CurrencyCode)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         name,
		Balance:      currency.RoundForCurrency(req.OpeningBalance, code),
		CurrencyCode: code,
		Hidden:       req.Hidden,
		DisplayOrder: req.DisplayOrder,
		AuditFields:  domain.NewAuditFields(now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("currency", code))
		return nil, err
	}
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("currency", code))
	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns every account ordered by display order, then id.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount changes name, hidden flag and display order.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = name
	}
	if req.Hidden != nil {
		account.Hidden = *req.Hidden
	}
	if req.DisplayOrder != nil {
		account.DisplayOrder = *req.DisplayOrder
	}
	account.Touch(s.Now())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account no operation references.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !apperrors.IsTaxonomyError(err) || errors.Is(err, apperrors.ErrStorage) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// MarkAccessed remembers accountID as the last account the user worked with.
func (s *accountService) MarkAccessed(ctx context.Context, accountID string) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.prefs.Set(ctx, lastAccessedAccountKey, []byte(accountID)); err != nil {
		s.LogError(ctx, err, "Failed to persist last accessed account")
		return storageError("failed to persist last accessed account", err)
	}
	return nil
}

// DefaultAccount returns the last accessed account while it exists and is
// visible. Otherwise it falls back to the visible account with the smallest id.
func (s *accountService) DefaultAccount(ctx context.Context) (*domain.Account, error) {
	data, err := s.prefs.Get(ctx, lastAccessedAccountKey)
	switch {
	case err == nil:
		account, findErr := s.accountRepo.FindAccountByID(ctx, string(data))
		if findErr == nil && !account.Hidden {
			return account, nil
		}
		if findErr != nil && !errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, findErr
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to read last accessed account")
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	var best *domain.Account
	for i := range accounts {
		if accounts[i].Hidden {
			continue
		}
		if best == nil || accounts[i].AccountID < best.AccountID {
			best = &accounts[i]
		}
	}
	if best == nil {
		return nil, apperrors.NewNotFoundError("no visible account")
	}
	return best, nil
}

// EnsureDefaultAccounts creates a cash and a bank account on first run.
func (s *accountService) EnsureDefaultAccounts(ctx context.Context, currencyCode string) error {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		return nil
	}

	for i, name := range []string{"Cash", "Bank account"} {
		if _, err := s.CreateAccount(ctx, dto.CreateAccountRequest{
			Name:         name,
			CurrencyCode: currencyCode,
			DisplayOrder: i,
		}); err != nil {
			return err
		}
	}
	s.LogInfo(ctx, "Default accounts created", slog.String("currency", currencyCode))
	return nil
}

// AdjustBalance records an income or expense on the shadow balance adjustment
// category so the account ends at target. No operation is recorded when the
// balance already matches.
func (s *accountService) AdjustBalance(ctx context.Context, accountID string, target decimal.Decimal) (*domain.Operation, error) {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.adjuster.AdjustBalance(ctx, accountID, target)
}
