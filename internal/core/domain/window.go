package domain

import "time"

// WindowState is a snapshot of the lazily loaded slice of the operation log.
// Operations are ordered by date descending, then insertion descending, then id.
type WindowState struct {
	Operations       []Operation `json:"operations"`
	OldestLoadedDate *time.Time  `json:"oldestLoadedDate,omitempty"`
	NewestLoadedDate *time.Time  `json:"newestLoadedDate,omitempty"`
	HasMoreOlder     bool        `json:"hasMoreOperations"`
	HasMoreNewer     bool        `json:"hasMoreNewer"`
	Loading          bool        `json:"loading"`
	LoadingOlder     bool        `json:"loadingMore"`
	LoadingNewer     bool        `json:"loadingNewer"`
	ActiveFilter     Filter      `json:"activeFilters"`
	FiltersActive    bool        `json:"filtersActive"`
}

// ChangeKind tells observers what happened to an operation.
type ChangeKind string

const (
	OperationCreated ChangeKind = "created"
	OperationUpdated ChangeKind = "updated"
	OperationDeleted ChangeKind = "deleted"
)

// ChangeEvent is published after a ledger mutation commits. Previous is set for
// updates and deletes, Current for creates and updates.
type ChangeEvent struct {
	Kind     ChangeKind
	Previous *Operation
	Current  *Operation
}
