// Package resources implements the resource directory endpoints: the public
// catalogue (listing, filtering, featured picks, detail views) and the admin
// surface (bulk import, review workflow, moderation queue).
package resources

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flithub-ie/flithub-go/internal/auth"
	"github.com/flithub-ie/flithub-go/internal/importer"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/metrics"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

// Handler serves resource endpoints. It depends on *storage.DB directly for
// data access.
type Handler struct {
	db       *storage.DB
	importer *importer.ResourceImporter
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewHandler creates a resource handler with required dependencies.
func NewHandler(db *storage.DB, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		db:       db,
		importer: importer.NewResourceImporter(db, log, m),
		metrics:  m,
		log:      log.WithModule("resources"),
	}
}

// List serves GET /api/resources. All filters are optional; slice filters
// accept comma-separated values and match when any value overlaps.
func (h *Handler) List(c *gin.Context) {
	filter := storage.ResourceFilter{
		Levels:     splitParam(c.Query("level")),
		Topics:     splitParam(c.Query("topic")),
		Segments:   splitParam(c.Query("segment")),
		Types:      splitParam(c.Query("type")),
		ProviderID: c.Query("provider_id"),
		Search:     c.Query("search"),
	}

	results, err := h.db.ListResources(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, err, "Failed to fetch resources")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resources": results, "count": len(results)})
}

// Featured serves GET /api/resources/featured.
func (h *Handler) Featured(c *gin.Context) {
	results, err := h.db.ListFeaturedResources(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to fetch resources")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": results, "count": len(results)})
}

// Get serves GET /api/resources/:id. Any status is returned so the detail
// page can show pending submissions to their owners.
func (h *Handler) Get(c *gin.Context) {
	resource, err := h.db.GetResourceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "Failed to fetch resource")
		return
	}
	if resource == nil {
		h.clientError(c, http.StatusNotFound, "Resource not found")
		return
	}
	c.JSON(http.StatusOK, resource)
}

// View serves POST /api/resources/:id/view. Fire-and-forget from the detail
// page: unknown ids are not reported back.
func (h *Handler) View(c *gin.Context) {
	id := c.Param("id")
	if err := h.db.IncrementViewCount(c.Request.Context(), id); err != nil {
		h.log.WithError(err).WithField("id", id).Warn("view count update failed")
	}
	c.Status(http.StatusNoContent)
}

type importRequest struct {
	Mode      string                 `json:"mode"`
	Resources []importer.ResourceRow `json:"resources"`
}

// Import serves POST /api/admin/import/resources. The batch always returns
// 200 with a per-row breakdown when it ran; only malformed requests and
// reference-data failures get error statuses.
func (h *Handler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.clientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	mode := importer.Mode(req.Mode)
	if mode == "" {
		mode = importer.ModeInsert
	}
	if mode != importer.ModeInsert && mode != importer.ModeUpsert {
		h.clientError(c, http.StatusBadRequest, "Invalid mode: must be 'insert' or 'upsert'")
		return
	}

	if len(req.Resources) == 0 {
		h.clientError(c, http.StatusBadRequest, "No resources provided")
		return
	}

	user := auth.MustGetUser(c)
	h.log.WithFields(map[string]any{
		"user": user.ID,
		"rows": len(req.Resources),
		"mode": string(mode),
	}).Info("resource import requested")

	result, err := h.importer.Run(c.Request.Context(), mode, req.Resources)
	if err != nil {
		h.serverError(c, err, "Import failed before processing rows")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create serves POST /api/admin/resources. The body is a single import row,
// so the same validation and normalization rules apply as in bulk import.
// New records default to pending review rather than approved.
func (h *Handler) Create(c *gin.Context) {
	var row importer.ResourceRow
	if err := c.ShouldBindJSON(&row); err != nil {
		h.clientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resource, validationErrs, err := h.importer.Prepare(c.Request.Context(), &row)
	if err != nil {
		h.serverError(c, err, "Failed to load reference data")
		return
	}
	if len(validationErrs) > 0 {
		h.metrics.RecordHTTPError(c.FullPath(), strconv.Itoa(http.StatusBadRequest))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validationErrs})
		return
	}

	user := auth.MustGetUser(c)
	resource.SubmittedBy = &user.ID
	if strings.TrimSpace(row.ReviewStatus) == "" {
		resource.ReviewStatus = "pending"
	}

	if err := h.db.InsertResource(c.Request.Context(), resource); err != nil {
		h.serverError(c, err, "Failed to create resource")
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// Update serves PUT /api/admin/resources/:id, replacing the content fields
// of an existing record. Review status is kept unless the body sets one.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.db.GetResourceByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "Failed to fetch resource")
		return
	}
	if existing == nil {
		h.clientError(c, http.StatusNotFound, "Resource not found")
		return
	}

	var row importer.ResourceRow
	if err := c.ShouldBindJSON(&row); err != nil {
		h.clientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resource, validationErrs, err := h.importer.Prepare(c.Request.Context(), &row)
	if err != nil {
		h.serverError(c, err, "Failed to load reference data")
		return
	}
	if len(validationErrs) > 0 {
		h.metrics.RecordHTTPError(c.FullPath(), strconv.Itoa(http.StatusBadRequest))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validationErrs})
		return
	}

	if strings.TrimSpace(row.ReviewStatus) == "" {
		resource.ReviewStatus = existing.ReviewStatus
	}

	if err := h.db.UpdateResource(c.Request.Context(), id, resource); err != nil {
		h.serverError(c, err, "Failed to update resource")
		return
	}

	updated, err := h.db.GetResourceByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "Failed to fetch resource")
		return
	}
	c.JSON(http.StatusOK, updated)
}

type reviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Review serves POST /api/admin/resources/:id/review, moving a submission
// through the review workflow.
func (h *Handler) Review(c *gin.Context) {
	id := c.Param("id")

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.clientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case "approved", "needs_changes", "rejected", "pending":
	default:
		h.clientError(c, http.StatusBadRequest,
			"Invalid status: must be one of pending, approved, needs_changes, rejected")
		return
	}

	resource, err := h.db.GetResourceByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "Failed to fetch resource")
		return
	}
	if resource == nil {
		h.clientError(c, http.StatusNotFound, "Resource not found")
		return
	}

	user := auth.MustGetUser(c)
	if err := h.db.SetReviewStatus(c.Request.Context(), id, status, req.Notes, user.ID); err != nil {
		h.serverError(c, err, "Failed to update review status")
		return
	}

	h.log.WithFields(map[string]any{
		"id":       id,
		"status":   status,
		"reviewer": user.ID,
	}).Info("review status updated")

	c.JSON(http.StatusOK, gin.H{"id": id, "review_status": status})
}

// Queue serves GET /api/admin/resources, listing submissions by review
// status for the moderation dashboard. Defaults to the pending queue.
func (h *Handler) Queue(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.DefaultQuery("status", "pending")))
	switch status {
	case "pending", "approved", "needs_changes", "rejected":
	default:
		h.clientError(c, http.StatusBadRequest,
			"Invalid status: must be one of pending, approved, needs_changes, rejected")
		return
	}

	results, err := h.db.ListResourcesByStatus(c.Request.Context(), status)
	if err != nil {
		h.serverError(c, err, "Failed to fetch resources")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resources": results, "count": len(results)})
}

func (h *Handler) clientError(c *gin.Context, status int, msg string) {
	h.metrics.RecordHTTPError(c.FullPath(), strconv.Itoa(status))
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	h.log.WithError(err).WithField("path", c.FullPath()).Error(msg)
	h.metrics.RecordHTTPError(c.FullPath(), strconv.Itoa(http.StatusInternalServerError))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
}

// splitParam splits a comma-separated query value, dropping blanks.
func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
