package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

	h := NewHandler(db, metrics.New(prometheus.NewRegistry()), logger.NewWithWriter("error", io.Discard))

	router := gin.New()
	router.GET("/api/providers", h.List)
	router.GET("/api/providers/:id", h.Get)
	router.POST("/api/admin/import/providers", h.Import)

	return router, db
}

func seedProvider(t *testing.T, db *storage.DB, name string) string {
	t.Helper()
	p := &storage.Provider{Name: name, ProviderType: "government", Country: "Ireland"}
	require.NoError(t, db.InsertProvider(context.Background(), p))
	return p.ID
}

func TestListAndGet(t *testing.T) {
	router, db := setupTestRouter(t)
	id := seedProvider(t, db, "CCPC")
	seedProvider(t, db, "MABS")

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Count     int                 `json:"count"`
		Providers []*storage.Provider `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 2, listResp.Count)

	req = httptest.NewRequest(http.MethodGet, "/api/providers/"+id, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var p storage.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "CCPC", p.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/providers/nope", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportJSON(t *testing.T) {
	router, db := setupTestRouter(t)
	seedProvider(t, db, "CCPC")

	body := `{"providers":[
		{"name":"CCPC","type":"government body"},
		{"name":"Bank of Ireland","type":"commercial bank","targetAudience":"Adults, Students"},
		{"name":""}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import/providers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Imported []string `json:"imported"`
		Skipped  []struct {
			Name string `json:"name"`
		} `json:"skipped"`
		Errors []struct {
			Name string `json:"name"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"Bank of Ireland"}, result.Imported)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "CCPC", result.Skipped[0].Name)
	require.Len(t, result.Errors, 1)

	providers, err := db.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	for _, p := range providers {
		if p.Name == "Bank of Ireland" {
			assert.Equal(t, "independent", p.ProviderType)
			assert.Equal(t, []string{"Adults", "Students"}, p.TargetAudience)
		}
	}
}

func TestImportCSV(t *testing.T) {
	router, db := setupTestRouter(t)

	csv := "name,type,website,targetAudience\n" +
		"CCPC,government body,https://ccpc.ie,\"Primary, Secondary\"\n"

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import/providers", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	providers, err := db.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "CCPC", providers[0].Name)
	assert.Equal(t, "government", providers[0].ProviderType)
	assert.Equal(t, []string{"Primary", "Secondary"}, providers[0].TargetAudience)
}

func TestImportRejectsBadInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import/providers", strings.NewReader(`{"providers":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/import/providers", strings.NewReader("type\ngovernment"))
	req.Header.Set("Content-Type", "text/csv")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
