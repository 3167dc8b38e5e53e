package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/hierarchy"
	"taxonomy/internal/picker"
	"taxonomy/internal/services"
)

// HierarchyHandler serves the parent picker API.
type HierarchyHandler struct {
	hierarchyService services.HierarchyServicer
	auditService     services.AuditServicer
	closeOnSelect    bool
}

// NewHierarchyHandler creates a new HierarchyHandler. auditService is nil
// when the store is remote and audits its own writes. closeOnSelect is
// reported to picker clients so they know whether a pick dismisses the list.
func NewHierarchyHandler(hierarchyService services.HierarchyServicer, auditService services.AuditServicer, closeOnSelect bool) *HierarchyHandler {
	return &HierarchyHandler{hierarchyService: hierarchyService, auditService: auditService, closeOnSelect: closeOnSelect}
}

// ValidateParentRequest asks whether parent_id may become the parent of node_id.
type ValidateParentRequest struct {
	NodeID   string `json:"node_id" binding:"required"`
	ParentID string `json:"parent_id"`
}

// SetParentRequest moves a category. A null or empty parent_id makes it a root.
type SetParentRequest struct {
	ParentID *string `json:"parent_id"`
}

// HierarchyNode is one category as shown in the parent picker.
type HierarchyNode struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	Icon          string                `json:"icon,omitempty"`
	IsActive      bool                  `json:"is_active"`
	ParentID      *string               `json:"parent_id"`
	SortOrder     int                   `json:"sort_order"`
	Level         int                   `json:"level"`
	Path          []hierarchy.PathEntry `json:"path"`
	HasChildren   bool                  `json:"has_children"`
	ChildrenCount int                   `json:"children_count"`
	Expanded      bool                  `json:"expanded"`
	Disabled      bool                  `json:"disabled"`
	Children      []HierarchyNode       `json:"children"`
}

// HierarchyResponse is the picker's view of the current snapshot.
type HierarchyResponse struct {
	Generation    uint64          `json:"generation"`
	Stale         bool            `json:"stale"`
	Editing       string          `json:"editing,omitempty"`
	CloseOnSelect bool            `json:"close_on_select"`
	Nodes         []HierarchyNode `json:"nodes"`
	Orphans       []string        `json:"orphans,omitempty"`
	CycleBreaks   []string        `json:"cycle_breaks,omitempty"`
}

// GetHierarchy handles the retrieval of the picker view
// @Summary     Hierarchy for the parent picker
// @Description Forest with level, path, expand and disabled flags. The category being edited and its descendants are disabled.
// @Tags        hierarchy
// @Produce     json
// @Param       editing   query string false "ID of the category being edited"
// @Param       collapsed query string false "Comma-separated IDs shown collapsed"
// @Param       refresh   query bool   false "Fetch from the store before answering"
// @Success     200 {object} HierarchyResponse "Hierarchy"
// @Failure     404 {object} ErrorResponse "Editing category not found"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /hierarchy [get]
func (h *HierarchyHandler) GetHierarchy(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		snap *services.Snapshot
		err  error
	)
	if c.Query("refresh") == "true" {
		snap, err = h.hierarchyService.Refresh(ctx)
	} else {
		snap, err = h.hierarchyService.Current(ctx)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	editing := c.Query("editing")
	if editing != "" {
		if _, ok := snap.Forest.Node(editing); !ok {
			respondWithError(c, apperrors.ErrCategoryNotFound)
			return
		}
	}

	state := picker.New(snap.Forest, editing, picker.Options{CloseOnSelect: h.closeOnSelect})
	for _, id := range strings.Split(c.Query("collapsed"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			state.Collapse(id)
		}
	}

	c.JSON(http.StatusOK, HierarchyResponse{
		Generation:    snap.Generation,
		Stale:         snap.Stale,
		Editing:       editing,
		CloseOnSelect: h.closeOnSelect,
		Nodes:         viewNodes(snap.Forest.Roots, state),
		Orphans:       snap.Forest.Orphans,
		CycleBreaks:   snap.Forest.CycleBreaks,
	})
}

// ValidateParent handles a parent check
// @Summary     Check a parent
// @Description Reports whether parent_id may become the parent of node_id. A rejection is a 200 with valid=false.
// @Tags        hierarchy
// @Accept      json
// @Produce     json
// @Param       request body ValidateParentRequest true "Node and candidate parent"
// @Success     200 {object} hierarchy.Verdict "Verdict"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /hierarchy/validate [post]
func (h *HierarchyHandler) ValidateParent(c *gin.Context) {
	var req ValidateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	verdict, err := h.hierarchyService.CheckParent(c.Request.Context(), req.NodeID, req.ParentID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// SetParent handles moving a category
// @Summary     Move a category
// @Description Checks the new parent and writes it to the store. Rejected moves are never written.
// @Tags        hierarchy
// @Accept      json
// @Produce     json
// @Param       id      path string           true "Category ID"
// @Param       request body SetParentRequest true "New parent"
// @Success     200 {object} CategoryResponse "Category moved"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Invalid parent"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /hierarchy/{id}/parent [put]
func (h *HierarchyHandler) SetParent(c *gin.Context) {
	var req SetParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	parentID := hierarchy.NoParent
	if req.ParentID != nil {
		parentID = *req.ParentID
	}

	updated, err := h.hierarchyService.Reparent(c.Request.Context(), c.Param("id"), parentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.auditService != nil {
		h.auditService.Log(services.AuditReparent, "category", updated.ID, c.ClientIP(),
			map[string]interface{}{"parent_id": map[string]interface{}{"to": updated.ParentID}})
	}
	c.JSON(http.StatusOK, CategoryResponse{Category: *updated})
}

// GetAncestors handles the retrieval of a breadcrumb
// @Summary     Breadcrumb
// @Description Ancestors of a category as reported by the store, root first
// @Tags        hierarchy
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} AncestorsResponse "Ancestors"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /hierarchy/{id}/ancestors [get]
func (h *HierarchyHandler) GetAncestors(c *gin.Context) {
	ancestors, err := h.hierarchyService.Ancestors(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, AncestorsResponse{Ancestors: ancestors})
}

func viewNodes(nodes []*hierarchy.Node, state *picker.State) []HierarchyNode {
	out := make([]HierarchyNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, HierarchyNode{
			ID:            n.ID,
			Name:          n.Name,
			Slug:          n.Slug,
			Icon:          n.Icon,
			IsActive:      n.IsActive,
			ParentID:      n.ParentID,
			SortOrder:     n.SortOrder,
			Level:         n.Level,
			Path:          n.Path,
			HasChildren:   n.HasChildren,
			ChildrenCount: n.ChildrenCount,
			Expanded:      state.IsExpanded(n.ID),
			Disabled:      state.IsDisabled(n.ID),
			Children:      viewNodes(n.Children, state),
		})
	}
	return out
}
