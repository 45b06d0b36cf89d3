package repositories

import "context"

// PreferencesStore is a simple key-value store for session preferences such as the active filter.
type PreferencesStore interface {
	// Get returns the stored value, or apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
