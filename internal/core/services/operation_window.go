package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
)

// OperationWindow holds the loaded slice of the operation log for the active
// filter and extends it one 7-day window at a time in either direction.
//
// LoadInitial and JumpToDate take a new request token. Results of any load
// started under an older token are dropped when they arrive, so the last
// request always wins. Extensions do nothing while a reset is in flight, and
// each direction has its own busy flag; a second call while one is in flight
// does nothing.
type OperationWindow struct {
	BaseService
	reader     portsrepo.OperationReader
	categories portsrepo.CategoryReader

	mu      sync.Mutex
	state   domain.WindowState
	query   domain.Filter // active filter with categories expanded to descendants
	pending domain.Filter // filter of the last reset request, loaded or not
	token   uint64
}

// NewOperationWindow creates an empty window.
func NewOperationWindow(reader portsrepo.OperationReader, categories portsrepo.CategoryReader, opts ...Option) *OperationWindow {
	return &OperationWindow{
		BaseService: newBaseService(opts...),
		reader:      reader,
		categories:  categories,
		state:       domain.WindowState{HasMoreOlder: true},
	}
}

var (
	_ portssvc.OperationWindowSvc = (*OperationWindow)(nil)
	_ LedgerObserver              = (*OperationWindow)(nil)
)

// State returns a copy of the current window.
func (w *OperationWindow) State() domain.WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.state
	out.Operations = slices.Clone(w.state.Operations)
	if out.Operations == nil {
		out.Operations = []domain.Operation{}
	}
	return out
}

// LoadInitial resets the window to the 7 days ending today under filter. When
// those days are empty it loads the 7 days ending at the newest operation
// instead, so the first screen is never blank while older data exists.
func (w *OperationWindow) LoadInitial(ctx context.Context, filter domain.Filter) error {
	filter = filter.Normalize()
	token, _ := w.begin(&filter)

	query, err := w.expand(ctx, filter)
	if err != nil {
		return w.fail(ctx, token, err, "Failed to expand category filter")
	}

	today := domain.NormalizeDate(w.Now())
	start := domain.AddDays(today, -(domain.WindowDays - 1))
	ops, err := w.reader.GetOperationsByWeekOffset(ctx, today, 0, query)
	if err == nil && len(ops) == 0 {
		var newest *domain.Operation
		newest, err = w.reader.GetNextOldestOperation(ctx, domain.AddDays(today, 1), query)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			err = nil
		case err == nil:
			end := domain.NormalizeDate(newest.Date)
			start = domain.AddDays(end, -(domain.WindowDays - 1))
			ops, err = w.reader.GetOperationsByDateRange(ctx, start, end, query)
		}
	}
	if err != nil {
		return w.fail(ctx, token, err, "Failed to load initial operations")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if token != w.token {
		w.LogDebug(ctx, "Discarding superseded initial load")
		return nil
	}
	w.reset(filter, query, ops, start, today)
	return nil
}

// JumpToDate discards the window and loads everything from target up to today.
func (w *OperationWindow) JumpToDate(ctx context.Context, target time.Time) error {
	target = domain.NormalizeDate(target)
	today := domain.NormalizeDate(w.Now())
	if target.After(today) {
		return apperrors.NewValidationError("cannot jump to a future date")
	}

	token, filter := w.begin(nil)
	query, err := w.expand(ctx, filter)
	if err != nil {
		return w.fail(ctx, token, err, "Failed to expand category filter")
	}

	ops, err := w.reader.GetOperationsByDateRange(ctx, target, today, query)
	if err != nil {
		return w.fail(ctx, token, err, "Failed to load operations for date jump", slog.String("date", domain.FormatDate(target)))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if token != w.token {
		w.LogDebug(ctx, "Discarding superseded date jump", slog.String("date", domain.FormatDate(target)))
		return nil
	}
	w.reset(filter, query, ops, target, today)
	return nil
}

// LoadMoreOperations extends the window backwards to the 7 days ending at the
// next older operation. When no older operation exists the window becomes terminal.
func (w *OperationWindow) LoadMoreOperations(ctx context.Context) error {
	w.mu.Lock()
	if w.state.Loading || w.state.LoadingOlder || !w.state.HasMoreOlder {
		w.mu.Unlock()
		return nil
	}
	w.state.LoadingOlder = true
	token, query := w.token, w.query
	before := domain.AddDays(w.Now(), 1)
	if w.state.OldestLoadedDate != nil {
		before = *w.state.OldestLoadedDate
	}
	w.mu.Unlock()

	var ops []domain.Operation
	next, err := w.reader.GetNextOldestOperation(ctx, before, query)
	found := err == nil
	if found {
		end := domain.NormalizeDate(next.Date)
		ops, err = w.reader.GetOperationsByDateRange(ctx, domain.AddDays(end, -(domain.WindowDays-1)), end, query)
	} else if errors.Is(err, apperrors.ErrNotFound) {
		err = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.LoadingOlder = false
	if token != w.token {
		return nil
	}
	if err != nil {
		w.LogError(ctx, err, "Failed to load older operations")
		return storageError("failed to load older operations", err)
	}
	if !found {
		w.state.HasMoreOlder = false
		return nil
	}

	end := domain.NormalizeDate(next.Date)
	start := domain.AddDays(end, -(domain.WindowDays - 1))
	w.merge(ops)
	w.state.OldestLoadedDate = &start
	if w.state.NewestLoadedDate == nil {
		w.state.NewestLoadedDate = &end
	}
	return nil
}

// LoadNewerOperations extends the window forwards to the 7 days starting at the
// next newer operation. When no newer operation exists the direction becomes terminal.
func (w *OperationWindow) LoadNewerOperations(ctx context.Context) error {
	w.mu.Lock()
	if w.state.Loading || w.state.LoadingNewer || !w.state.HasMoreNewer || w.state.NewestLoadedDate == nil {
		w.mu.Unlock()
		return nil
	}
	w.state.LoadingNewer = true
	token, query, after := w.token, w.query, *w.state.NewestLoadedDate
	w.mu.Unlock()

	var ops []domain.Operation
	next, err := w.reader.GetNextNewestOperation(ctx, after, query)
	found := err == nil
	if found {
		start := domain.NormalizeDate(next.Date)
		ops, err = w.reader.GetOperationsByDateRange(ctx, start, domain.AddDays(start, domain.WindowDays-1), query)
	} else if errors.Is(err, apperrors.ErrNotFound) {
		err = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.LoadingNewer = false
	if token != w.token {
		return nil
	}
	if err != nil {
		w.LogError(ctx, err, "Failed to load newer operations")
		return storageError("failed to load newer operations", err)
	}
	if !found {
		w.state.HasMoreNewer = false
		return nil
	}

	end := domain.AddDays(next.Date, domain.WindowDays-1)
	w.merge(ops)
	w.state.NewestLoadedDate = &end
	return nil
}

// OperationsChanged keeps the loaded window in line with committed mutations.
func (w *OperationWindow) OperationsChanged(ctx context.Context, event domain.ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.OldestLoadedDate == nil || w.state.NewestLoadedDate == nil {
		return
	}

	if event.Previous != nil {
		w.remove(event.Previous.OperationID)
	}
	if event.Current == nil {
		return
	}
	w.remove(event.Current.OperationID)
	if !w.query.Matches(*event.Current) {
		return
	}

	date := domain.NormalizeDate(event.Current.Date)
	switch {
	case date.Before(*w.state.OldestLoadedDate):
		w.state.HasMoreOlder = true
	case date.After(*w.state.NewestLoadedDate):
		w.state.HasMoreNewer = true
	default:
		w.merge([]domain.Operation{*event.Current})
	}
	w.LogDebug(ctx, "Window updated after ledger change", slog.String("kind", string(event.Kind)))
}

// begin issues a new request token and marks the window as loading. A nil
// filter keeps the one requested last, even if its load has not landed yet.
func (w *OperationWindow) begin(filter *domain.Filter) (uint64, domain.Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token++
	w.state.Loading = true
	if filter != nil {
		w.pending = *filter
	}
	return w.token, w.pending
}

// fail logs err and clears the loading flag if token is still current. The
// loaded window is left as it was.
func (w *OperationWindow) fail(ctx context.Context, token uint64, err error, msg string, keyvals ...any) error {
	w.LogError(ctx, err, msg, keyvals...)
	w.mu.Lock()
	if token == w.token {
		w.state.Loading = false
	}
	w.mu.Unlock()
	return storageError(msg, err)
}

// reset must be called with mu held.
func (w *OperationWindow) reset(filter, query domain.Filter, ops []domain.Operation, oldest, newest time.Time) {
	w.query = query
	w.state = domain.WindowState{
		OldestLoadedDate: &oldest,
		NewestLoadedDate: &newest,
		HasMoreOlder:     true,
		HasMoreNewer:     false,
		LoadingOlder:     w.state.LoadingOlder,
		LoadingNewer:     w.state.LoadingNewer,
		ActiveFilter:     filter,
		FiltersActive:    filter.IsActive(),
	}
	w.merge(ops)
}

// merge adds ops not already in the window and restores log order. Operations
// already loaded win over incoming duplicates. Must be called with mu held.
func (w *OperationWindow) merge(ops []domain.Operation) {
	seen := make(map[string]struct{}, len(w.state.Operations))
	for _, op := range w.state.Operations {
		seen[op.OperationID] = struct{}{}
	}
	for _, op := range ops {
		if _, ok := seen[op.OperationID]; ok {
			continue
		}
		seen[op.OperationID] = struct{}{}
		w.state.Operations = append(w.state.Operations, op)
	}
	slices.SortFunc(w.state.Operations, domain.CompareLogOrder)
}

// remove must be called with mu held.
func (w *OperationWindow) remove(operationID string) {
	w.state.Operations = slices.DeleteFunc(w.state.Operations, func(op domain.Operation) bool {
		return op.OperationID == operationID
	})
}

func (w *OperationWindow) expand(ctx context.Context, filter domain.Filter) (domain.Filter, error) {
	if len(filter.CategoryIDs) == 0 {
		return filter, nil
	}
	categories, err := w.categories.ListCategories(ctx)
	if err != nil {
		return domain.Filter{}, err
	}
	query := filter
	query.CategoryIDs = domain.ExpandCategoryIDs(categories, filter.CategoryIDs)
	return query, nil
}

func storageError(msg string, err error) error {
	if errors.Is(err, apperrors.ErrStorage) {
		return err
	}
	return apperrors.NewStorageError(msg, err)
}
