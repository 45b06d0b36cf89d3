package models

// Category is the persisted form of a category row.
type Category struct {
	CategoryID string  `db:"id"`
	Name       string  `db:"name"`
	Type       string  `db:"type"`
	ParentID   *string `db:"parent_id"` // Nullable
	Icon       string  `db:"icon"`
	IsShadow   bool    `db:"is_shadow"`
}
