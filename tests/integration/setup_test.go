package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taxonomy/internal/cache"
	"taxonomy/internal/client"
	"taxonomy/internal/handlers"
	"taxonomy/internal/logger"
	"taxonomy/internal/middleware"
	"taxonomy/internal/models"
	"taxonomy/internal/services"
	"taxonomy/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Category{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	return router
}

// setupApp creates the store and the hierarchy API in one process, the
// hierarchy reading the store service directly.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	categoryService := services.NewCategoryService(db, cache.NewMemory(0))
	auditService := services.NewAuditService(db)
	hierarchyService := services.NewHierarchyService(categoryService)

	router := newRouter()
	handlers.RegisterRoutes(router,
		handlers.NewCategoryHandler(categoryService, auditService),
		handlers.NewHierarchyHandler(hierarchyService, auditService, true))

	return &testApp{DB: db, Router: router}
}

// setupRemoteApp serves a store over HTTP and returns it together with a
// hierarchy-only app that reaches it through the store client.
func setupRemoteApp(t *testing.T) (store *testApp, hier *testApp) {
	t.Helper()

	store = setupApp(t)
	server := httptest.NewServer(store.Router)
	t.Cleanup(server.Close)

	source := client.NewStoreClient(server.URL, server.Client())
	router := newRouter()
	handlers.RegisterRoutes(router, nil, handlers.NewHierarchyHandler(services.NewHierarchyService(source), nil, true))

	return store, &testApp{Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return errObj["code"].(string)
}

// createCategory creates a category and returns its id. parentID may be "".
func (app *testApp) createCategory(t *testing.T, name, parentID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q}`, name)
	if parentID != "" {
		body = fmt.Sprintf(`{"name":%q,"parent_id":%q}`, name, parentID)
	}
	rec := app.request("POST", "/api/v1/categories", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s failed: %d %s", name, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

// parentOf reads a category back from the store and returns its parent id.
func (app *testApp) parentOf(t *testing.T, id string) string {
	t.Helper()
	rec := app.request("GET", "/api/v1/categories/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get %s failed: %d %s", id, rec.Code, rec.Body.String())
	}
	p, _ := parseJSON(t, rec)["category"].(map[string]interface{})["parent_id"].(string)
	return p
}

// hierarchyNodes fetches a fresh hierarchy and indexes its nodes by id.
func (app *testApp) hierarchyNodes(t *testing.T, query string) map[string]map[string]interface{} {
	t.Helper()
	rec := app.request("GET", "/api/v1/hierarchy?refresh=true"+query, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("hierarchy failed: %d %s", rec.Code, rec.Body.String())
	}
	out := map[string]map[string]interface{}{}
	var walk func([]interface{})
	walk = func(nodes []interface{}) {
		for _, raw := range nodes {
			n := raw.(map[string]interface{})
			out[n["id"].(string)] = n
			walk(n["children"].([]interface{}))
		}
	}
	walk(parseJSON(t, rec)["nodes"].([]interface{}))
	return out
}
