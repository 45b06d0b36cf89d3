package dto

import "github.com/SscSPs/operations_ledger/internal/core/domain"

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ParentID   string `json:"parentID,omitempty"`
	Icon       string `json:"icon,omitempty"`
}

// ToListCategoryResponse converts categories to DTOs, leaving out shadow categories.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		if c.IsShadow {
			continue
		}
		res = append(res, CategoryResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Type:       string(c.Type),
			ParentID:   c.ParentID,
			Icon:       c.Icon,
		})
	}
	return res
}
