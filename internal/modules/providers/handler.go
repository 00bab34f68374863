// Package providers implements the provider directory endpoints: the public
// listing and the admin bulk import, which accepts both JSON arrays and
// spreadsheet-pasted CSV.
package providers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flithub-ie/flithub-go/internal/importer"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/metrics"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

// Handler serves provider endpoints.
type Handler struct {
	db       *storage.DB
	importer *importer.ProviderImporter
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewHandler creates a provider handler with required dependencies.
func NewHandler(db *storage.DB, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		db:       db,
		importer: importer.NewProviderImporter(db, log, m),
		metrics:  m,
		log:      log.WithModule("providers"),
	}
}

// List serves GET /api/providers.
func (h *Handler) List(c *gin.Context) {
	results, err := h.db.ListProviders(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to fetch providers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": results, "count": len(results)})
}

// Get serves GET /api/providers/:id.
func (h *Handler) Get(c *gin.Context) {
	provider, err := h.db.GetProviderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "Failed to fetch provider")
		return
	}
	if provider == nil {
		h.clientError(c, http.StatusNotFound, "Provider not found")
		return
	}
	c.JSON(http.StatusOK, provider)
}

type importRequest struct {
	Providers []importer.ProviderRow `json:"providers"`
}

// Import serves POST /api/admin/import/providers. JSON bodies carry a
// providers array; text/csv bodies are parsed as pasted spreadsheet data.
func (h *Handler) Import(c *gin.Context) {
	rows, ok := h.readRows(c)
	if !ok {
		return
	}

	if len(rows) == 0 {
		h.clientError(c, http.StatusBadRequest, "Invalid or empty providers array")
		return
	}

	result, err := h.importer.Run(c.Request.Context(), rows)
	if err != nil {
		h.serverError(c, err, "Import failed before processing rows")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) readRows(c *gin.Context) ([]importer.ProviderRow, bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "text/csv") || strings.HasPrefix(contentType, "text/plain") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.clientError(c, http.StatusBadRequest, "Failed to read request body")
			return nil, false
		}
		rows, err := importer.ParseProviderCSV(string(body))
		if err != nil {
			h.clientError(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		return rows, true
	}

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.clientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return req.Providers, true
}

func (h *Handler) clientError(c *gin.Context, status int, msg string) {
	h.metrics.RecordHTTPError(c.FullPath(), strconv.Itoa(status))
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	h.log.WithError(err).WithField("path", c.FullPath()).Error(msg)
	h.metrics.RecordHTTPError(c.FullPath(), strconv.Itoa(http.StatusInternalServerError))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
