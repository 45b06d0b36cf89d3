package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/shopspring/decimal"
)

// rateTolerance is how far a derived rate may drift from the stored one before it is rewritten.
var rateTolerance = decimal.New(1, -currency.RatePlaces)

// RateLookup returns the offline rate converting from into to.
type RateLookup func(from, to string) (decimal.Decimal, bool)

// DeriveTransfer brings the three numeric fields of a transfer draft back in
// line after the user edited draft.LastEdited. Empty currencies mean the
// accounts are not chosen yet and leave the draft as it is.
func DeriveTransfer(draft domain.TransferDraft, sourceCurrency, destinationCurrency string, lookup RateLookup) domain.TransferDraft {
	if sourceCurrency == "" || destinationCurrency == "" {
		return draft
	}
	if strings.EqualFold(sourceCurrency, destinationCurrency) {
		draft.ExchangeRate = ""
		draft.DestinationAmount = ""
		draft.LastEdited = domain.EditedNone
		return draft
	}

	if strings.TrimSpace(draft.ExchangeRate) == "" && lookup != nil {
		if rate, ok := lookup(sourceCurrency, destinationCurrency); ok {
			draft.ExchangeRate = currency.FormatRate(currency.RoundRate(rate))
			draft.LastEdited = domain.EditedExchangeRate
		}
	}

	amount, hasAmount := parseDraftNumber(draft.Amount)
	switch draft.LastEdited {
	case domain.EditedAmount, domain.EditedExchangeRate:
		rate, hasRate := parseDraftNumber(draft.ExchangeRate)
		if hasAmount && hasRate {
			destination := currency.RoundForCurrency(amount.Mul(rate), destinationCurrency)
			draft.DestinationAmount = currency.FormatForCurrency(destination, destinationCurrency)
		}
	case domain.EditedDestinationAmount:
		destination, hasDestination := parseDraftNumber(draft.DestinationAmount)
		if hasAmount && hasDestination && amount.IsPositive() {
			rate := currency.RoundRate(destination.Div(amount))
			stored, hasStored := parseDraftNumber(draft.ExchangeRate)
			if !hasStored || rate.Sub(stored).Abs().GreaterThan(rateTolerance) {
				draft.ExchangeRate = currency.FormatRate(rate)
			}
		}
	}
	return draft
}

func parseDraftNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

type transferReconciler struct {
	BaseService
	accounts portsrepo.AccountReader
	rates    portsrepo.ExchangeRateTable
}

// NewTransferReconciler creates the reconciler used by transfer forms.
func NewTransferReconciler(accounts portsrepo.AccountReader, rates portsrepo.ExchangeRateTable, opts ...Option) *transferReconciler {
	return &transferReconciler{
		BaseService: newBaseService(opts...),
		accounts:    accounts,
		rates:       rates,
	}
}

var _ portssvc.TransferReconcilerSvc = (*transferReconciler)(nil)

// Reconcile resolves the currencies of the draft's accounts and derives the
// remaining transfer field.
func (s *transferReconciler) Reconcile(ctx context.Context, draft domain.TransferDraft) (domain.TransferDraft, error) {
	if draft.FromAccountID == "" || draft.ToAccountID == "" {
		return draft, nil
	}

	source, err := s.accountCurrency(ctx, draft.FromAccountID)
	if err != nil {
		return draft, err
	}
	destination, err := s.accountCurrency(ctx, draft.ToAccountID)
	if err != nil {
		return draft, err
	}

	var lookup RateLookup
	if s.rates != nil {
		lookup = s.rates.GetExchangeRate
	}
	return DeriveTransfer(draft, source, destination, lookup), nil
}

func (s *transferReconciler) accountCurrency(ctx context.Context, accountID string) (string, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewValidationError("account " + accountID + " does not exist")
		}
		s.LogError(ctx, err, "Failed to read transfer account")
		return "", err
	}
	return account.CurrencyCode, nil
}
