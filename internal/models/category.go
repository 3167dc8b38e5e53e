package models

// Category is a catalog taxonomy record as stored by the category store.
// ParentID is a weak reference by id; it may point at a record that no
// longer exists.
type Category struct {
	Base
	Name        string  `gorm:"not null" json:"name"`
	Slug        string  `gorm:"not null;index:idx_categories_slug,unique,where:deleted_at IS NULL" json:"slug"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `gorm:"not null" json:"is_active"`
	ParentID    *string `gorm:"type:uuid;index" json:"parent_id"`
	SortOrder   int     `gorm:"not null;default:0" json:"sort_order"`

	// Children is only populated by nested (tree) feeds.
	Children []Category `gorm:"-" json:"children,omitempty"`
}

// ParentKey returns the parent id, or "" for a root.
func (c *Category) ParentKey() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}
