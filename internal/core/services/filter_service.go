package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
)

const filterPreferenceKey = "operations.filter"

type filterService struct {
	BaseService
	prefs  portsrepo.PreferencesStore
	window portssvc.OperationWindowSvc

	mu     sync.RWMutex
	active domain.Filter
}

// NewFilterService creates the filter service driving window.
func NewFilterService(prefs portsrepo.PreferencesStore, window portssvc.OperationWindowSvc, opts ...Option) *filterService {
	return &filterService{
		BaseService: newBaseService(opts...),
		prefs:       prefs,
		window:      window,
	}
}

var _ portssvc.FilterSvc = (*filterService)(nil)

// UpdateFilters replaces the active filter, persists it and resets the window.
func (s *filterService) UpdateFilters(ctx context.Context, filter domain.Filter) error {
	filter = filter.Normalize()
	if err := validateFilter(filter); err != nil {
		return err
	}

	data, err := json.Marshal(filter)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode filter", err)
	}
	if err := s.prefs.Set(ctx, filterPreferenceKey, data); err != nil {
		s.LogError(ctx, err, "Failed to persist filter")
		return storageError("failed to persist filter", err)
	}

	s.mu.Lock()
	s.active = filter
	s.mu.Unlock()

	s.LogInfo(ctx, "Filters updated", slog.Int("active_groups", filter.ActiveFilterCount()))
	return s.window.LoadInitial(ctx, filter)
}

// ClearFilters is UpdateFilters with the empty filter.
func (s *filterService) ClearFilters(ctx context.Context) error {
	return s.UpdateFilters(ctx, domain.Filter{})
}

func (s *filterService) ActiveFilters() domain.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *filterService) ActiveFilterCount() int {
	return s.ActiveFilters().ActiveFilterCount()
}

// Restore loads the persisted filter, falling back to the empty filter when
// nothing was saved or the saved value is unreadable, then performs the initial load.
func (s *filterService) Restore(ctx context.Context) error {
	var filter domain.Filter
	data, err := s.prefs.Get(ctx, filterPreferenceKey)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
	case err != nil:
		s.LogError(ctx, err, "Failed to read persisted filter")
		return storageError("failed to read persisted filter", err)
	default:
		if err := json.Unmarshal(data, &filter); err != nil {
			s.LogError(ctx, err, "Ignoring unreadable persisted filter")
			filter = domain.Filter{}
		}
	}

	filter = filter.Normalize()
	s.mu.Lock()
	s.active = filter
	s.mu.Unlock()
	return s.window.LoadInitial(ctx, filter)
}

func validateFilter(f domain.Filter) error {
	for _, t := range f.Types {
		if !t.Valid() {
			return apperrors.NewValidationError("unknown operation type " + string(t))
		}
	}
	if f.DateRange.Start != nil && f.DateRange.End != nil && f.DateRange.Start.After(*f.DateRange.End) {
		return apperrors.NewValidationError("date range start must not be after its end")
	}
	if f.AmountRange.Min != nil && f.AmountRange.Max != nil && f.AmountRange.Min.GreaterThan(*f.AmountRange.Max) {
		return apperrors.NewValidationError("minimum amount must not exceed the maximum amount")
	}
	return nil
}
