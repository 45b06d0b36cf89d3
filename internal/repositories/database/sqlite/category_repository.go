package sqlite

import (
	"context"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/models"
	"github.com/SscSPs/operations_ledger/internal/utils/mapping"
)

const categoryColumns = "id, name, type, parent_id, icon, is_shadow"

type categoryRepository struct {
	q querier
}

func scanCategory(s rowScanner) (domain.Category, error) {
	var m models.Category
	if err := s.Scan(&m.CategoryID, &m.Name, &m.Type, &m.ParentID, &m.Icon, &m.IsShadow); err != nil {
		return domain.Category{}, err
	}
	return mapping.ToDomainCategory(m), nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY id")
	if err != nil {
		return nil, wrapError(err, "failed to list categories")
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, wrapError(err, "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "failed to iterate categories")
	}
	return categories, nil
}

func (r *categoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	c, err := scanCategory(r.q.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", categoryID))
	if err != nil {
		return nil, wrapError(err, "category "+categoryID+" not found")
	}
	return &c, nil
}
