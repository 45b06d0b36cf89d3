package dto

import (
	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// JumpToDateRequest moves the window so that it starts at Date.
type JumpToDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// WindowResponse mirrors domain.WindowState for the UI.
type WindowResponse struct {
	Operations        []OperationResponse `json:"operations"`
	OldestLoadedDate  string              `json:"oldestLoadedDate,omitempty"`
	NewestLoadedDate  string              `json:"newestLoadedDate,omitempty"`
	Loading           bool                `json:"loading"`
	LoadingMore       bool                `json:"loadingMore"`
	LoadingNewer      bool                `json:"loadingNewer"`
	HasMoreOperations bool                `json:"hasMoreOperations"`
	HasMoreNewer      bool                `json:"hasMoreNewer"`
	ActiveFilters     domain.Filter       `json:"activeFilters"`
	FiltersActive     bool                `json:"filtersActive"`
}

// ToWindowResponse converts a window snapshot to its DTO.
func ToWindowResponse(s domain.WindowState) WindowResponse {
	res := WindowResponse{
		Operations:        ToListOperationResponse(s.Operations),
		Loading:           s.Loading,
		LoadingMore:       s.LoadingOlder,
		LoadingNewer:      s.LoadingNewer,
		HasMoreOperations: s.HasMoreOlder,
		HasMoreNewer:      s.HasMoreNewer,
		ActiveFilters:     s.ActiveFilter,
		FiltersActive:     s.FiltersActive,
	}
	if s.OldestLoadedDate != nil {
		res.OldestLoadedDate = domain.FormatDate(*s.OldestLoadedDate)
	}
	if s.NewestLoadedDate != nil {
		res.NewestLoadedDate = domain.FormatDate(*s.NewestLoadedDate)
	}
	return res
}
