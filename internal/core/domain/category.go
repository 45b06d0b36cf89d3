package domain

import "sort"

// CategoryType tells which operation type a category may be used with.
type CategoryType string

const (
	ExpenseCategory CategoryType = "expense"
	IncomeCategory  CategoryType = "income"
)

// Category is a read-only input to the ledger core. Categories form a tree
// (folder, subfolder, entry) through ParentID.
type Category struct {
	CategoryID string       `json:"categoryID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	ParentID   string       `json:"parentID,omitempty"`
	Icon       string       `json:"icon,omitempty"`
	IsShadow   bool         `json:"isShadow"` // system reserved, e.g. balance adjustment
}

// ExpandCategoryIDs returns the given ids together with every descendant id,
// sorted and without duplicates. Unknown ids are kept as-is.
func ExpandCategoryIDs(categories []Category, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	children := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.CategoryID)
		}
	}

	seen := make(map[string]struct{}, len(ids))
	queue := append([]string(nil), ids...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		queue = append(queue, children[id]...)
	}

	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Shadow categories seeded by the migrations for balance adjustments. They are
// hidden from users and rejected for user-entered operations.
const (
	BalanceAdjustmentIncomeCategoryID  = "shadow-balance-adjustment-income"
	BalanceAdjustmentExpenseCategoryID = "shadow-balance-adjustment-expense"
)
