package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taxonomy/internal/cache"
	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/hierarchy"
	"taxonomy/internal/logger"
	"taxonomy/internal/models"
	"taxonomy/internal/validator"
)

// categoryService is the reference category store.
type categoryService struct {
	db    *gorm.DB
	cache cache.TreeCache
}

// NewCategoryService creates a new CategoryServicer. A nil cache disables tree caching.
func NewCategoryService(db *gorm.DB, treeCache cache.TreeCache) CategoryServicer {
	if treeCache == nil {
		treeCache = cache.Nop{}
	}
	return &categoryService{db: db, cache: treeCache}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	slug, err := s.resolveSlug(s.db.WithContext(ctx), "", in.Slug, in.Name)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil && *in.ParentID != "" {
		var parent models.Category
		if err := s.db.WithContext(ctx).Select("id").Where("id = ?", *in.ParentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	} else {
		in.ParentID = nil
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Icon:        in.Icon,
		ImageURL:    in.ImageURL,
		IsActive:    isActive,
		ParentID:    in.ParentID,
		SortOrder:   in.SortOrder,
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidate(ctx)
	return category, nil
}

// ListCategories returns every category ordered by sort_order then name.
func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("sort_order ASC, name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetTree returns the nested category feed, served from the tree cache when warm.
func (s *categoryService) GetTree(ctx context.Context) ([]models.Category, error) {
	log := logger.Named("store")

	tree, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Warnw("tree cache read failed", "error", err)
	}
	if ok {
		return tree, nil
	}

	flat, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tree = hierarchy.Nest(hierarchy.BuildTree(flat))

	if err := s.cache.Set(ctx, tree); err != nil {
		log.Warnw("tree cache write failed", "error", err)
	}
	return tree, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetAncestors returns the ancestors of id ordered from the root down to the
// immediate parent.
func (s *categoryService) GetAncestors(ctx context.Context, id string) ([]models.Category, error) {
	forest, err := s.loadForest(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if _, ok := forest.Node(id); !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	nodes := forest.Ancestors(id)
	out := make([]models.Category, 0, len(nodes))
	for _, n := range nodes {
		c := n.Category
		c.Children = nil
		out = append(out, c)
	}
	return out, nil
}

// UpdateCategory replaces the writable fields of an existing category. A new
// parent is checked against the stored hierarchy inside the same transaction,
// so concurrent moves cannot combine into a cycle.
func (s *categoryService) UpdateCategory(ctx context.Context, in models.Category) (*models.Category, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var updated models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", in.ID).First(&updated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		slug, err := s.resolveSlug(tx, in.ID, in.Slug, in.Name)
		if err != nil {
			return err
		}

		parent := in.ParentKey()
		if parent != "" {
			forest, err := s.loadForest(tx)
			if err != nil {
				return err
			}
			if err := parentError(forest.CheckParent(in.ID, parent)); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"name":        in.Name,
			"slug":        slug,
			"description": in.Description,
			"icon":        in.Icon,
			"image_url":   in.ImageURL,
			"is_active":   in.IsActive,
			"sort_order":  in.SortOrder,
			"parent_id":   nil,
		}
		if parent != "" {
			updates["parent_id"] = parent
		}
		if err := tx.Model(&updated).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", in.ID).First(&updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &updated, nil
}

// DeleteCategory deletes a category
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	// Check if there are any child categories
	var childCount int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if childCount > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	if err := s.db.WithContext(ctx).Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidate(ctx)
	return nil
}

// loadForest builds the hierarchy of every stored category.
func (s *categoryService) loadForest(db *gorm.DB) (*hierarchy.Forest, error) {
	var all []models.Category
	if err := db.Find(&all).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return hierarchy.Build(all), nil
}

// resolveSlug validates the requested slug, or derives one from name, and
// makes sure no other category (excluding selfID) already uses it.
func (s *categoryService) resolveSlug(db *gorm.DB, selfID, slug, name string) (string, error) {
	if slug == "" {
		slug = Slugify(name)
	}
	if !validator.SlugPattern.MatchString(slug) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "slug must be lower-case letters, digits and single hyphens")
	}

	q := db.Model(&models.Category{}).Where("slug = ?", slug)
	if selfID != "" {
		q = q.Where("id <> ?", selfID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return "", apperrors.ErrDuplicateSlug
	}
	return slug, nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Named("store").Warnw("tree cache invalidation failed", "error", err)
	}
}

// parentError maps a rejected parent verdict to the store's error codes.
func parentError(v hierarchy.Verdict) error {
	switch v.Reason {
	case hierarchy.ReasonNone:
		return nil
	case hierarchy.ReasonSelf:
		return apperrors.ErrSelfParentCategory
	case hierarchy.ReasonUnknownParent:
		return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
	default:
		return apperrors.ErrCategoryCycle
	}
}
