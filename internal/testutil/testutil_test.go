package testutil_test

import (
	"testing"

	"taxonomy/internal/errors"
	"taxonomy/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"categories", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestCategory(t, a)

	var count int64
	b.Table("categories").Count(&count)
	if count != 0 {
		t.Errorf("expected isolated databases, found %d rows", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	root := testutil.CreateTestCategory(t, db)
	if root.ID == "" {
		t.Fatal("category should have an ID")
	}
	if root.ParentID != nil || !root.IsActive {
		t.Errorf("expected active root, got %+v", root)
	}

	chain := testutil.CreateTestChain(t, db, "A", "B", "C")
	if len(chain) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(chain))
	}
	if chain[0].ParentID != nil {
		t.Error("chain head should be a root")
	}
	if chain[2].ParentKey() != chain[1].ID || chain[1].ParentKey() != chain[0].ID {
		t.Error("chain links are wrong")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
