package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/hierarchy"
	"taxonomy/internal/models"
	"taxonomy/internal/services"
)

// --- mock hierarchy service ---

type mockHierarchyService struct {
	refreshFn     func(ctx context.Context) (*services.Snapshot, error)
	currentFn     func(ctx context.Context) (*services.Snapshot, error)
	checkParentFn func(ctx context.Context, nodeID, parentID string) (hierarchy.Verdict, error)
	reparentFn    func(ctx context.Context, nodeID, parentID string) (*models.Category, error)
	ancestorsFn   func(ctx context.Context, id string) ([]models.Category, error)
}

func (m *mockHierarchyService) Refresh(ctx context.Context) (*services.Snapshot, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return testSnapshot(), nil
}

func (m *mockHierarchyService) Current(ctx context.Context) (*services.Snapshot, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx)
	}
	return testSnapshot(), nil
}

func (m *mockHierarchyService) CheckParent(ctx context.Context, nodeID, parentID string) (hierarchy.Verdict, error) {
	if m.checkParentFn != nil {
		return m.checkParentFn(ctx, nodeID, parentID)
	}
	return testSnapshot().Forest.CheckParent(nodeID, parentID), nil
}

func (m *mockHierarchyService) Reparent(ctx context.Context, nodeID, parentID string) (*models.Category, error) {
	if m.reparentFn != nil {
		return m.reparentFn(ctx, nodeID, parentID)
	}
	c := models.Category{Base: models.Base{ID: nodeID}}
	if parentID != "" {
		c.ParentID = &parentID
	}
	return &c, nil
}

func (m *mockHierarchyService) Ancestors(ctx context.Context, id string) ([]models.Category, error) {
	if m.ancestorsFn != nil {
		return m.ancestorsFn(ctx, id)
	}
	return []models.Category{}, nil
}

var _ services.HierarchyServicer = (*mockHierarchyService)(nil)

func node(id, parent string) models.Category {
	c := models.Category{Base: models.Base{ID: id}, Name: id}
	if parent != "" {
		c.ParentID = strPtr(parent)
	}
	return c
}

// testSnapshot is A -> B -> C plus a separate root D.
func testSnapshot() *services.Snapshot {
	return &services.Snapshot{
		Forest:     hierarchy.Build([]models.Category{node("A", ""), node("B", "A"), node("C", "B"), node("D", "")}),
		Generation: 7,
	}
}

func setupHierarchyRouter(handler *HierarchyHandler) *gin.Engine {
	r := gin.New()
	r.GET("/hierarchy", handler.GetHierarchy)
	r.POST("/hierarchy/validate", handler.ValidateParent)
	r.PUT("/hierarchy/:id/parent", handler.SetParent)
	r.GET("/hierarchy/:id/ancestors", handler.GetAncestors)
	return r
}

// flatten indexes the nested view by id.
func flatten(nodes []interface{}, out map[string]map[string]interface{}) {
	for _, raw := range nodes {
		n := raw.(map[string]interface{})
		out[n["id"].(string)] = n
		flatten(n["children"].([]interface{}), out)
	}
}

func TestHierarchyHandler_GetHierarchy(t *testing.T) {
	t.Run("disables the edited node and its descendants", func(t *testing.T) {
		r := setupHierarchyRouter(NewHierarchyHandler(&mockHierarchyService{}, nil, true))

		rec := doRequest(r, "GET", "/hierarchy?editing=B&collapsed=A", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["generation"].(float64) != 7 {
			t.Errorf("expected generation 7, got %v", result["generation"])
		}
		nodes := map[string]map[string]interface{}{}
		flatten(result["nodes"].([]interface{}), nodes)
		if len(nodes) != 4 {
			t.Fatalf("expected 4 nodes, got %d", len(nodes))
		}
		for id, want := range map[string]bool{"A": false, "B": true, "C": true, "D": false} {
			if nodes[id]["disabled"] != want {
				t.Errorf("%s: expected disabled=%v, got %v", id, want, nodes[id]["disabled"])
			}
		}
		if nodes["A"]["expanded"] != false || nodes["B"]["expanded"] != true {
			t.Error("expected only A collapsed")
		}
		if nodes["C"]["level"].(float64) != 2 || len(nodes["C"]["path"].([]interface{})) != 2 {
			t.Errorf("unexpected level/path for C: %v", nodes["C"])
		}
	})

	t.Run("reports the configured selection mode", func(t *testing.T) {
		for _, closeOnSelect := range []bool{true, false} {
			r := setupHierarchyRouter(NewHierarchyHandler(&mockHierarchyService{}, nil, closeOnSelect))

			rec := doRequest(r, "GET", "/hierarchy", "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := parseJSON(t, rec)["close_on_select"]; got != closeOnSelect {
				t.Errorf("expected close_on_select=%v, got %v", closeOnSelect, got)
			}
		}
	})

	t.Run("unknown editing id", func(t *testing.T) {
		r := setupHierarchyRouter(NewHierarchyHandler(&mockHierarchyService{}, nil, true))

		rec := doRequest(r, "GET", "/hierarchy?editing=Z", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("refresh failure", func(t *testing.T) {
		svc := &mockHierarchyService{
			refreshFn: func(context.Context) (*services.Snapshot, error) {
				return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, errors.New("refused"))
			},
		}
		r := setupHierarchyRouter(NewHierarchyHandler(svc, nil, true))

		rec := doRequest(r, "GET", "/hierarchy?refresh=true", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STORE_UNAVAILABLE")
	})
}

func TestHierarchyHandler_ValidateParent(t *testing.T) {
	r := setupHierarchyRouter(NewHierarchyHandler(&mockHierarchyService{}, nil, true))

	tests := []struct {
		name   string
		body   string
		valid  bool
		reason string
	}{
		{"descendant", `{"node_id":"A","parent_id":"C"}`, false, "descendant"},
		{"self", `{"node_id":"A","parent_id":"A"}`, false, "self"},
		{"root", `{"node_id":"C","parent_id":""}`, true, ""},
		{"other tree", `{"node_id":"B","parent_id":"D"}`, true, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(r, "POST", "/hierarchy/validate", tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			result := parseJSON(t, rec)
			if result["valid"] != tc.valid {
				t.Errorf("expected valid=%v, got %v", tc.valid, result)
			}
			if tc.reason != "" && result["reason"] != tc.reason {
				t.Errorf("expected reason %s, got %v", tc.reason, result["reason"])
			}
			if !tc.valid && result["message"] != hierarchy.RejectionMessage {
				t.Errorf("expected rejection message, got %v", result["message"])
			}
		})
	}

	t.Run("missing node id", func(t *testing.T) {
		rec := doRequest(r, "POST", "/hierarchy/validate", `{"parent_id":"A"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHierarchyHandler_SetParent(t *testing.T) {
	t.Run("moves the category", func(t *testing.T) {
		var gotNode, gotParent string
		svc := &mockHierarchyService{
			reparentFn: func(_ context.Context, nodeID, parentID string) (*models.Category, error) {
				gotNode, gotParent = nodeID, parentID
				return &models.Category{Base: models.Base{ID: nodeID}, ParentID: &parentID}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupHierarchyRouter(NewHierarchyHandler(svc, audit, true))

		rec := doRequest(r, "PUT", "/hierarchy/C/parent", `{"parent_id":"D"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditReparent {
			t.Errorf("expected reparent audit entry, got %+v", audit.entries)
		}
		if gotNode != "C" || gotParent != "D" {
			t.Errorf("expected C -> D, got %s -> %s", gotNode, gotParent)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["parent_id"] != "D" {
			t.Errorf("expected parent D, got %v", cat["parent_id"])
		}
	})

	t.Run("null parent means root", func(t *testing.T) {
		gotParent := "unset"
		svc := &mockHierarchyService{
			reparentFn: func(_ context.Context, nodeID, parentID string) (*models.Category, error) {
				gotParent = parentID
				return &models.Category{Base: models.Base{ID: nodeID}}, nil
			},
		}
		r := setupHierarchyRouter(NewHierarchyHandler(svc, nil, true))

		rec := doRequest(r, "PUT", "/hierarchy/C/parent", `{"parent_id":null}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotParent != hierarchy.NoParent {
			t.Errorf("expected no parent, got %q", gotParent)
		}
	})

	t.Run("invalid parent is 409", func(t *testing.T) {
		svc := &mockHierarchyService{
			reparentFn: func(context.Context, string, string) (*models.Category, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidParent, hierarchy.RejectionMessage)
			},
		}
		r := setupHierarchyRouter(NewHierarchyHandler(svc, nil, true))

		rec := doRequest(r, "PUT", "/hierarchy/A/parent", `{"parent_id":"C"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_PARENT")
		if msg := result["error"].(map[string]interface{})["message"]; msg != hierarchy.RejectionMessage {
			t.Errorf("expected operator message, got %v", msg)
		}
	})
}

func TestHierarchyHandler_GetAncestors(t *testing.T) {
	svc := &mockHierarchyService{
		ancestorsFn: func(_ context.Context, id string) ([]models.Category, error) {
			return []models.Category{node("A", ""), node("B", "A")}, nil
		},
	}
	r := setupHierarchyRouter(NewHierarchyHandler(svc, nil, true))

	rec := doRequest(r, "GET", "/hierarchy/C/ancestors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if anc := parseJSON(t, rec)["ancestors"].([]interface{}); len(anc) != 2 {
		t.Errorf("expected 2 ancestors, got %d", len(anc))
	}
}
