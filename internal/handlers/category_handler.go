package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/models"
	"taxonomy/internal/pagination"
	"taxonomy/internal/services"
)

// CategoryHandler serves the category store API.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Slug        string  `json:"slug" binding:"omitempty,max=255,slug"`
	Description string  `json:"description"`
	Icon        string  `json:"icon" binding:"max=100"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *string `json:"parent_id" binding:"omitempty,uuid"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateCategoryRequest is the full category record. A null or empty
// parent_id makes the category a root; an omitted is_active keeps the
// stored value.
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Slug        string  `json:"slug" binding:"omitempty,max=255,slug"`
	Description string  `json:"description"`
	Icon        string  `json:"icon" binding:"max=100"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *string `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Category models.Category `json:"category"`
}

// CategoryListResponse wraps a flat or nested category feed.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// AncestorsResponse wraps an ancestor chain ordered root first.
type AncestorsResponse struct {
	Ancestors []models.Category `json:"ancestors"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new catalog category, optionally under a parent
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Parent not found"
// @Failure     409 {object} ErrorResponse "Duplicate slug"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), services.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditCreate, "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name, "slug": category.Slug, "parent_id": category.ParentID})

	c.JSON(http.StatusCreated, CategoryResponse{Category: *category})
}

// ListCategories handles the retrieval of the flat category list
// @Summary     List categories
// @Description Flat list of all categories ordered by sort_order then name
// @Tags        categories
// @Produce     json
// @Success     200 {object} CategoryListResponse "Categories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryListResponse{Categories: categories})
}

// GetTree handles the retrieval of the nested category feed
// @Summary     Category tree
// @Description Categories nested under their parents
// @Tags        categories
// @Produce     json
// @Success     200 {object} CategoryListResponse "Nested categories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/tree [get]
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.categoryService.GetTree(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryListResponse{Categories: tree})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} CategoryResponse "Category"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}

// GetAncestors handles the retrieval of a category's ancestor chain
// @Summary     Category ancestors
// @Description Ancestors ordered from the root down to the immediate parent
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} AncestorsResponse "Ancestors"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/ancestors [get]
func (h *CategoryHandler) GetAncestors(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ancestors, err := h.categoryService.GetAncestors(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, AncestorsResponse{Ancestors: ancestors})
}

// UpdateCategory handles replacing a category record
// @Summary     Update a category
// @Description Replace a category. A new parent is rejected if it is the category itself or one of its descendants.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Param       request body UpdateCategoryRequest true "Full category record"
// @Success     200 {object} CategoryResponse "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input or self parent"
// @Failure     404 {object} ErrorResponse "Category or parent not found"
// @Failure     409 {object} ErrorResponse "Cycle or duplicate slug"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	existing, err := h.categoryService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record := models.Category{
		Base:        models.Base{ID: id},
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		ImageURL:    req.ImageURL,
		IsActive:    existing.IsActive,
		SortOrder:   req.SortOrder,
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}
	if req.ParentID != nil && *req.ParentID != "" {
		record.ParentID = req.ParentID
	}

	updated, err := h.categoryService.UpdateCategory(c.Request.Context(), record)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if existing.ParentKey() != updated.ParentKey() {
		h.auditService.Log(services.AuditReparent, "category", id, c.ClientIP(),
			map[string]interface{}{"parent_id": map[string]interface{}{"from": existing.ParentID, "to": updated.ParentID}})
	} else {
		h.auditService.Log(services.AuditUpdate, "category", id, c.ClientIP(),
			map[string]interface{}{"name": updated.Name, "slug": updated.Slug})
	}

	c.JSON(http.StatusOK, CategoryResponse{Category: *updated})
}

// DeleteCategory handles deleting a category
// @Summary     Delete a category
// @Description Delete a category that has no children
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category has children"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditDelete, "category", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}

// GetHistory handles the retrieval of a category's audit trail
// @Summary     Category history
// @Description Audit entries for a category, newest first
// @Tags        categories
// @Produce     json
// @Param       id        path  string true  "Category ID"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Items per page (max 100)"
// @Success     200 {object} pagination.Page[models.AuditLog] "History"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories/{id}/history [get]
func (h *CategoryHandler) GetHistory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	history, err := h.auditService.History(c.Request.Context(), id, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
