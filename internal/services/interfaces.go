package services

import (
	"context"

	"taxonomy/internal/hierarchy"
	"taxonomy/internal/models"
	"taxonomy/internal/pagination"
)

// CategoryInput carries the writable fields of a new category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	ImageURL    string
	IsActive    *bool
	ParentID    *string
	SortOrder   int
}

// CategorySource is the read/write surface of a category store, local or remote.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetTree(ctx context.Context) ([]models.Category, error)
	GetAncestors(ctx context.Context, id string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category models.Category) (*models.Category, error)
}

// CategoryServicer defines the contract for the reference category store.
type CategoryServicer interface {
	CategorySource
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// HierarchyServicer defines the contract for building and editing the
// hierarchy on top of a CategorySource.
type HierarchyServicer interface {
	Refresh(ctx context.Context) (*Snapshot, error)
	Current(ctx context.Context) (*Snapshot, error)
	CheckParent(ctx context.Context, nodeID, parentID string) (hierarchy.Verdict, error)
	Reparent(ctx context.Context, nodeID, parentID string) (*models.Category, error)
	Ancestors(ctx context.Context, id string) ([]models.Category, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	History(ctx context.Context, resourceID string, req pagination.PageRequest) (pagination.Page[models.AuditLog], error)
}
