package repositories

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// CategoryReader exposes the read-only category tree owned by an external collaborator.
type CategoryReader interface {
	// ListCategories returns every category, folders included.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// FindCategoryByID retrieves a category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
}
