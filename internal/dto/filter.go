package dto

import (
	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FilterRequest is the wire form of the compound operation filter.
type FilterRequest struct {
	Types       []string `json:"types" binding:"omitempty,dive,oneof=expense income transfer"`
	AccountIDs  []string `json:"accountIDs"`
	CategoryIDs []string `json:"categoryIDs"`
	SearchText  string   `json:"searchText"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	MinAmount   string   `json:"minAmount"`
	MaxAmount   string   `json:"maxAmount"`
}

// FilterCountResponse reports how many filter groups are populated.
type FilterCountResponse struct {
	Count  int  `json:"count"`
	Active bool `json:"active"`
}

// ToDomain converts the request into a domain filter.
func (r FilterRequest) ToDomain() (domain.Filter, error) {
	f := domain.Filter{
		AccountIDs:  r.AccountIDs,
		CategoryIDs: r.CategoryIDs,
		SearchText:  r.SearchText,
	}
	for _, t := range r.Types {
		f.Types = append(f.Types, domain.OperationType(t))
	}
	if r.StartDate != "" {
		start, err := domain.ParseDate(r.StartDate)
		if err != nil {
			return f, apperrors.NewValidationError("startDate must use the YYYY-MM-DD format")
		}
		f.DateRange.Start = &start
	}
	if r.EndDate != "" {
		end, err := domain.ParseDate(r.EndDate)
		if err != nil {
			return f, apperrors.NewValidationError("endDate must use the YYYY-MM-DD format")
		}
		f.DateRange.End = &end
	}
	if r.MinAmount != "" {
		minAmount, err := decimal.NewFromString(r.MinAmount)
		if err != nil {
			return f, apperrors.NewValidationError("minAmount must be a valid number")
		}
		f.AmountRange.Min = &minAmount
	}
	if r.MaxAmount != "" {
		maxAmount, err := decimal.NewFromString(r.MaxAmount)
		if err != nil {
			return f, apperrors.NewValidationError("maxAmount must be a valid number")
		}
		f.AmountRange.Max = &maxAmount
	}
	return f, nil
}
