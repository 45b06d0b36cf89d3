// Package bolt keeps session preferences in a bbolt file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

const bucketPreferences = "preferences"

// PreferencesStore is a bbolt backed key-value store.
type PreferencesStore struct {
	db *bolt.DB
}

var _ portsrepo.PreferencesStore = (*PreferencesStore)(nil)

// New opens (creating if needed) the preferences file and its bucket.
func New(path string) (*PreferencesStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketPreferences)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketPreferences, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PreferencesStore{db: db}, nil
}

// Close closes the database.
func (s *PreferencesStore) Close() error {
	return s.db.Close()
}

// Get returns a copy of the stored value or apperrors.ErrNotFound.
func (s *PreferencesStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketPreferences)).Get([]byte(key))
		if data == nil {
			return apperrors.NewNotFoundError("preference " + key + " not set")
		}
		// bbolt memory is only valid inside the transaction.
		value = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		if apperrors.IsTaxonomyError(err) {
			return nil, err
		}
		return nil, apperrors.NewStorageError("failed to read preference "+key, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *PreferencesStore) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPreferences)).Put([]byte(key), value)
	})
	if err != nil {
		return apperrors.NewStorageError("failed to write preference "+key, err)
	}
	return nil
}
