package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/logger"
	"taxonomy/internal/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

// storeRejection mimics client.StoreError relaying a store error code.
type storeRejection struct{}

func (e *storeRejection) Error() string { return "unexpected status 409" }
func (e *storeRejection) AppError() *apperrors.AppError {
	return apperrors.WithMessage(apperrors.ErrCategoryCycle, "would create a cycle")
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrStoreUnavailable, errors.New("dial tcp: refused")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/relayed", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("update category: %w", &storeRejection{}))
	})
	r.GET("/answered", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		_ = c.Error(errors.New("audit write failed"))
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"app error keeps its code", "/app", http.StatusBadGateway, "STORE_UNAVAILABLE"},
		{"unexpected error is masked", "/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"no error passes through", "/ok", http.StatusOK, ""},
		{"store rejection keeps the store code", "/relayed", http.StatusConflict, "CATEGORY_CYCLE"},
		{"answered request is left alone", "/answered", http.StatusAccepted, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(r, http.MethodGet, tc.path, nil)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantCode == "" {
				if _, ok := parseBody(t, rec)["error"]; ok {
					t.Errorf("unexpected error envelope: %s", rec.Body.String())
				}
				return
			}
			body := parseBody(t, rec)
			errObj, ok := body["error"].(map[string]interface{})
			if !ok {
				t.Fatalf("expected error object, got %v", body)
			}
			if errObj["code"] != tc.wantCode {
				t.Errorf("expected code %s, got %v", tc.wantCode, errObj["code"])
			}
			if tc.wantCode == "STORE_UNAVAILABLE" && errObj["message"] == "dial tcp: refused" {
				t.Error("internal error leaked to the client")
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	t.Run("assigns a request id", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/id", nil)
		id := rec.Header().Get("X-Request-ID")
		if !uuid.IsValid(id) {
			t.Fatalf("expected uuid request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("context id %q != header id %q", rec.Body.String(), id)
		}
	})

	t.Run("reuses a valid inbound id", func(t *testing.T) {
		in := uuid.New()
		rec := doRequest(r, http.MethodGet, "/id", map[string]string{"X-Request-ID": in})
		if got := rec.Header().Get("X-Request-ID"); got != in {
			t.Errorf("expected %s, got %s", in, got)
		}
	})

	t.Run("replaces a malformed inbound id", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/id", map[string]string{"X-Request-ID": "not-a-uuid"})
		if got := rec.Header().Get("X-Request-ID"); got == "not-a-uuid" || !uuid.IsValid(got) {
			t.Errorf("expected fresh id, got %q", got)
		}
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://admin.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doRequest(r, http.MethodGet, "/x", map[string]string{"Origin": "https://admin.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example" {
		t.Errorf("expected allowed origin header, got %q", got)
	}

	rec = doRequest(r, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for disallowed origin, got %d", rec.Code)
	}
}
