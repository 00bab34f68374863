package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flithub-ie/flithub-go/internal/auth"
	"github.com/flithub-ie/flithub-go/internal/identity"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/metrics"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *storage.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewWithWriter("error", io.Discard)
	h := NewHandler(db, m, log)

	router := gin.New()
	router.GET("/api/resources", h.List)
	router.GET("/api/resources/featured", h.Featured)
	router.GET("/api/resources/:id", h.Get)
	router.POST("/api/resources/:id/view", h.View)

	admin := router.Group("/api/admin")
	admin.Use(func(c *gin.Context) {
		c.Set(auth.CtxUserKey, &identity.User{ID: "admin-1", Email: "admin@flithub.ie"})
	})
	admin.POST("/import/resources", h.Import)
	admin.GET("/resources", h.Queue)
	admin.POST("/resources", h.Create)
	admin.PUT("/resources/:id", h.Update)
	admin.POST("/resources/:id/review", h.Review)

	return router, db
}

func seedResource(t *testing.T, db *storage.DB, title, status string, featured bool) string {
	t.Helper()
	r := &storage.Resource{
		Title:        title,
		Description:  "Seeded for tests",
		ResourceType: "guide",
		Topics:       []string{"budgeting"},
		Levels:       []string{"senior_cycle"},
		ReviewStatus: status,
		IsFeatured:   featured,
	}
	require.NoError(t, db.InsertResource(context.Background(), r))
	return r.ID
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListFiltersAndApprovedOnly(t *testing.T) {
	router, db := setupTestRouter(t)
	seedResource(t, db, "Approved Budgeting", "approved", false)
	seedResource(t, db, "Pending Budgeting", "pending", false)

	w := doJSON(router, http.MethodGet, "/api/resources", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count     int                 `json:"count"`
		Resources []*storage.Resource `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Approved Budgeting", resp.Resources[0].Title)

	w = doJSON(router, http.MethodGet, "/api/resources?level=primary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)

	w = doJSON(router, http.MethodGet, "/api/resources?level=senior_cycle&search=budget", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestFeatured(t *testing.T) {
	router, db := setupTestRouter(t)
	seedResource(t, db, "Plain", "approved", false)
	seedResource(t, db, "Starred", "approved", true)

	w := doJSON(router, http.MethodGet, "/api/resources/featured", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count     int                 `json:"count"`
		Resources []*storage.Resource `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Starred", resp.Resources[0].Title)
}

func TestViewCounter(t *testing.T) {
	router, db := setupTestRouter(t)
	id := seedResource(t, db, "Counted", "approved", false)

	for i := 0; i < 2; i++ {
		w := doJSON(router, http.MethodPost, "/api/resources/"+id+"/view", nil)
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	// Unknown ids are fire-and-forget
	w := doJSON(router, http.MethodPost, "/api/resources/missing/view", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	r, err := db.GetResourceByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 2, r.ViewCount)
}

func TestGetNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := doJSON(router, http.MethodGet, "/api/resources/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)

	body := map[string]any{
		"mode": "insert",
		"resources": []map[string]any{
			{
				"title":         "Intro to Saving",
				"description":   "Savings basics",
				"resource_type": "Lesson Plan",
				"topics":        "saving",
				"levels":        []string{"Junior Cycle"},
			},
			{
				"title": "Broken",
			},
		},
	}

	w := doJSON(router, http.MethodPost, "/api/admin/import/resources", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Success bool `json:"success"`
		Summary struct {
			Total    int `json:"total"`
			Inserted int `json:"inserted"`
			Errors   int `json:"errors"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Inserted)
	assert.Equal(t, 1, result.Summary.Errors)

	refs, err := db.SelectResourceRefs(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Intro to Saving", refs[0].Title)
}

func TestImportEndpointRejectsBadRequests(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/admin/import/resources", map[string]any{
		"mode":      "merge",
		"resources": []map[string]any{{"title": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/import/resources", map[string]any{
		"mode": "insert",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewWorkflow(t *testing.T) {
	router, db := setupTestRouter(t)
	id := seedResource(t, db, "Under Review", "pending", false)

	w := doJSON(router, http.MethodPost, "/api/admin/resources/"+id+"/review", map[string]any{
		"status": "Approved",
		"notes":  "Looks good",
	})
	require.Equal(t, http.StatusOK, w.Code)

	r, err := db.GetResourceByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "approved", r.ReviewStatus)
	require.NotNil(t, r.ReviewedBy)
	assert.Equal(t, "admin-1", *r.ReviewedBy)
	require.NotNil(t, r.ReviewNotes)
	assert.Equal(t, "Looks good", *r.ReviewNotes)

	w = doJSON(router, http.MethodPost, "/api/admin/resources/"+id+"/review", map[string]any{
		"status": "archived",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/resources/missing/review", map[string]any{
		"status": "approved",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAndUpdate(t *testing.T) {
	router, db := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/admin/resources", map[string]any{
		"title":         "Submitted Resource",
		"description":   "Awaiting review",
		"resource_type": "worksheet",
		"topics":        "budgeting",
		"levels":        "primary",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created storage.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.ReviewStatus)
	require.NotNil(t, created.SubmittedBy)
	assert.Equal(t, "admin-1", *created.SubmittedBy)

	// Invalid rows get the full error list back
	w = doJSON(router, http.MethodPost, "/api/admin/resources", map[string]any{
		"title":         "Bad",
		"resource_type": "mixtape",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var bad struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.GreaterOrEqual(t, len(bad.Errors), 2)

	// Update keeps review status unless the body sets one
	w = doJSON(router, http.MethodPut, "/api/admin/resources/"+created.ID, map[string]any{
		"title":         "Submitted Resource",
		"description":   "Revised description",
		"resource_type": "worksheet",
		"topics":        "budgeting",
		"levels":        "primary",
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := db.GetResourceByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Revised description", updated.Description)
	assert.Equal(t, "pending", updated.ReviewStatus)

	w = doJSON(router, http.MethodPut, "/api/admin/resources/missing", map[string]any{
		"title": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueue(t *testing.T) {
	router, db := setupTestRouter(t)
	seedResource(t, db, "Waiting", "pending", false)
	seedResource(t, db, "Done", "approved", false)

	w := doJSON(router, http.MethodGet, "/api/admin/resources", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count     int                 `json:"count"`
		Resources []*storage.Resource `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Waiting", resp.Resources[0].Title)

	w = doJSON(router, http.MethodGet, "/api/admin/resources?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
