package dto

import (
	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// ReconcileTransferRequest is a transfer form snapshot plus the field the user just edited.
type ReconcileTransferRequest struct {
	FromAccountID     string `json:"fromAccountID" binding:"required"`
	ToAccountID       string `json:"toAccountID" binding:"required"`
	Amount            string `json:"amount"`
	ExchangeRate      string `json:"exchangeRate"`
	DestinationAmount string `json:"destinationAmount"`
	LastEdited        string `json:"lastEdited" binding:"omitempty,oneof=none amount exchangeRate destinationAmount"`
}

// ReconcileTransferResponse is the draft after derivation.
type ReconcileTransferResponse struct {
	FromAccountID     string `json:"fromAccountID"`
	ToAccountID       string `json:"toAccountID"`
	Amount            string `json:"amount"`
	ExchangeRate      string `json:"exchangeRate"`
	DestinationAmount string `json:"destinationAmount"`
	LastEdited        string `json:"lastEdited"`
}

// ToDomain converts the request into a transfer draft.
func (r ReconcileTransferRequest) ToDomain() (domain.TransferDraft, error) {
	edited, err := domain.ParseEditedField(r.LastEdited)
	if err != nil {
		return domain.TransferDraft{}, apperrors.NewValidationError(err.Error())
	}
	return domain.TransferDraft{
		FromAccountID:     r.FromAccountID,
		ToAccountID:       r.ToAccountID,
		Amount:            r.Amount,
		ExchangeRate:      r.ExchangeRate,
		DestinationAmount: r.DestinationAmount,
		LastEdited:        edited,
	}, nil
}

// ToReconcileTransferResponse converts a draft back to its DTO.
func ToReconcileTransferResponse(d domain.TransferDraft) ReconcileTransferResponse {
	return ReconcileTransferResponse{
		FromAccountID:     d.FromAccountID,
		ToAccountID:       d.ToAccountID,
		Amount:            d.Amount,
		ExchangeRate:      d.ExchangeRate,
		DestinationAmount: d.DestinationAmount,
		LastEdited:        d.LastEdited.String(),
	}
}
