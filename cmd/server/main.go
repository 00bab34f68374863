// Package main provides the resource directory API server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/flithub-ie/flithub-go/internal/buildinfo"
	"github.com/flithub-ie/flithub-go/internal/config"
	"github.com/flithub-ie/flithub-go/internal/identity"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/metrics"
	"github.com/flithub-ie/flithub-go/internal/modules/providers"
	"github.com/flithub-ie/flithub-go/internal/modules/ratings"
	"github.com/flithub-ie/flithub-go/internal/modules/resources"
	"github.com/flithub-ie/flithub-go/internal/sentry"
	"github.com/flithub-ie/flithub-go/internal/sitemap"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithFields(map[string]any{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	}).Info("Starting FLITHub API server")

	// Initialize Sentry (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Connect to database
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Select the identity verifier: a shared JWT secret when configured,
	// otherwise the external userinfo endpoint.
	var verifier identity.Verifier
	if cfg.AuthJWTSecret != "" {
		verifier = identity.NewJWTVerifier(cfg.AuthJWTSecret)
		log.Info("JWT identity verifier configured")
	} else {
		verifier = identity.NewHTTPVerifier(cfg.AuthUserInfoURL, cfg.AuthTimeout)
		log.WithField("url", cfg.AuthUserInfoURL).Info("HTTP identity verifier configured")
	}

	// Create module handlers
	resourceHandler := resources.NewHandler(db, m, log)
	providerHandler := providers.NewHandler(db, m, log)
	ratingHandler := ratings.NewHandler(db, m, log)
	sitemapGen := sitemap.New(db, cfg.SiteURL)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	if sentry.IsEnabled() {
		router.Use(sentryMiddleware())
	}

	// Setup routes
	setupRoutes(router, routeDeps{
		cfg:       cfg,
		db:        db,
		registry:  registry,
		metrics:   m,
		verifier:  verifier,
		resources: resourceHandler,
		providers: providerHandler,
		ratings:   ratingHandler,
		sitemap:   sitemapGen,
		log:       log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
