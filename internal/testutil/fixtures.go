package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"taxonomy/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates an active root category with a unique name and slug.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	n := nextID()
	return CreateTestCategoryWithParent(t, db, fmt.Sprintf("Test Category %d", n), nil)
}

// CreateTestCategoryWithParent creates a category named name under parentID.
// The slug is derived from the name and a unique suffix.
func CreateTestCategoryWithParent(t *testing.T, db *gorm.DB, name string, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     name,
		Slug:     fmt.Sprintf("test-category-%d", nextID()),
		IsActive: true,
		ParentID: parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChain creates a root-to-leaf chain of categories, one per name.
func CreateTestChain(t *testing.T, db *gorm.DB, names ...string) []*models.Category {
	t.Helper()

	out := make([]*models.Category, 0, len(names))
	var parent *string
	for _, name := range names {
		c := CreateTestCategoryWithParent(t, db, name, parent)
		out = append(out, c)
		id := c.ID
		parent = &id
	}
	return out
}
