// Package ratings implements resource ratings: authenticated users submit a
// star rating with an optional comment, and approved ratings are served
// publicly with an aggregate.
package ratings

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flithub-ie/flithub-go/internal/auth"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/metrics"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

// Handler serves rating endpoints.
type Handler struct {
	db      *storage.DB
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewHandler creates a rating handler with required dependencies.
func NewHandler(db *storage.DB, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{db: db, metrics: m, log: log.WithModule("ratings")}
}

// List serves GET /api/resources/:id/ratings: approved ratings plus the
// average and count.
func (h *Handler) List(c *gin.Context) {
	resourceID := c.Param("id")

	ratings, err := h.db.ListApprovedRatings(c.Request.Context(), resourceID)
	if err != nil {
		h.serverError(c, err, "Failed to fetch ratings")
		return
	}

	var sum int
	for _, r := range ratings {
		sum += r.Stars
	}
	average := 0.0
	if len(ratings) > 0 {
		average = float64(sum) / float64(len(ratings))
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings": ratings,
		"count":   len(ratings),
		"average": average,
	})
}

type submitRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

// Submit serves POST /api/resources/:id/ratings. One rating per user per
// resource; resubmitting replaces the previous one. New ratings are held for
// moderation.
func (h *Handler) Submit(c *gin.Context) {
	resourceID := c.Param("id")

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.clientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Stars < 1 || req.Stars > 5 {
		h.clientError(c, http.StatusBadRequest, "Stars must be between 1 and 5")
		return
	}

	resource, err := h.db.GetResourceByID(c.Request.Context(), resourceID)
	if err != nil {
		h.serverError(c, err, "Failed to fetch resource")
		return
	}
	if resource == nil {
		h.clientError(c, http.StatusNotFound, "Resource not found")
		return
	}

	user := auth.MustGetUser(c)

	rating := &storage.Rating{
		ResourceID: resourceID,
		UserID:     user.ID,
		Stars:      req.Stars,
		IsApproved: false,
	}
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		rating.Comment = &comment
	}

	if err := h.db.UpsertRating(c.Request.Context(), rating); err != nil {
		h.serverError(c, err, "Failed to save rating")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "pending review"})
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
