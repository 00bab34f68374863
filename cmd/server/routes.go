// Package main provides the resource directory API server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flithub-ie/flithub-go/internal/auth"
	"github.com/flithub-ie/flithub-go/internal/config"
	"github.com/flithub-ie/flithub-go/internal/identity"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/metrics"
	"github.com/flithub-ie/flithub-go/internal/modules/providers"
	"github.com/flithub-ie/flithub-go/internal/modules/ratings"
	"github.com/flithub-ie/flithub-go/internal/modules/resources"
	"github.com/flithub-ie/flithub-go/internal/sitemap"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

type routeDeps struct {
	cfg       *config.Config
	db        *storage.DB
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	verifier  identity.Verifier
	resources *resources.Handler
	providers *providers.Handler
	ratings   *ratings.Handler
	sitemap   *sitemap.Generator
	log       *logger.Logger
}

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, deps routeDeps) {
	// Root endpoint
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "flithub-api", "status": "ok"})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only checks that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - full dependency check
	readyHandler := func(c *gin.Context) {
		if err := deps.db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		resourceCount, _ := deps.db.CountResources(c.Request.Context())
		providerCount, _ := deps.db.CountProviders(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"catalogue": gin.H{
				"resources": resourceCount,
				"providers": providerCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Sitemap for search engines
	router.GET("/sitemap.xml", func(c *gin.Context) {
		xml, err := deps.sitemap.Generate(c.Request.Context())
		if err != nil {
			deps.log.WithError(err).Error("Failed to generate sitemap")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate sitemap"})
			return
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "application/xml", []byte(xml))
	})

	// Public API
	api := router.Group("/api")
	{
		api.GET("/resources", deps.resources.List)
		api.GET("/resources/featured", deps.resources.Featured)
		api.GET("/resources/:id", deps.resources.Get)
		api.POST("/resources/:id/view", deps.resources.View)
		api.GET("/resources/:id/ratings", deps.ratings.List)
		api.GET("/providers", deps.providers.List)
		api.GET("/providers/:id", deps.providers.Get)
	}

	// Authenticated API (any signed-in user)
	authed := api.Group("")
	authed.Use(auth.Authenticate(deps.verifier, deps.metrics))
	{
		authed.POST("/resources/:id/ratings", deps.ratings.Submit)
	}

	// Admin API
	admin := api.Group("/admin")
	admin.Use(auth.Authenticate(deps.verifier, deps.metrics))
	admin.Use(auth.RequireAdmin(deps.db, deps.metrics))
	{
		admin.POST("/import/resources", deps.resources.Import)
		admin.POST("/import/providers", deps.providers.Import)
		admin.GET("/resources", deps.resources.Queue)
		admin.POST("/resources", deps.resources.Create)
		admin.PUT("/resources/:id", deps.resources.Update)
		admin.POST("/resources/:id/review", deps.resources.Review)
	}

	// Prometheus metrics endpoint, behind Basic Auth when credentials are set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	if deps.cfg.MetricsUsername != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			deps.cfg.MetricsUsername: deps.cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
