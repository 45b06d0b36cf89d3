package services

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryReader
}

// NewCategoryService creates a category service.
func NewCategoryService(categoryRepo portsrepo.CategoryReader, opts ...Option) *categoryService {
	return &categoryService{BaseService: newBaseService(opts...), categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvc = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return categories, nil
}
