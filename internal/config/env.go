// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Server
	EnvPort            = "FLITHUB_PORT"
	EnvLogLevel        = "FLITHUB_LOG_LEVEL"
	EnvShutdownTimeout = "FLITHUB_SHUTDOWN_TIMEOUT"
	EnvSiteURL         = "FLITHUB_SITE_URL"

	// Data
	EnvDataDir = "FLITHUB_DATA_DIR"

	// Auth
	EnvAuthJWTSecret   = "FLITHUB_AUTH_JWT_SECRET"
	EnvAuthUserInfoURL = "FLITHUB_AUTH_USERINFO_URL"
	EnvAuthTimeout     = "FLITHUB_AUTH_TIMEOUT"

	// Metrics
	EnvMetricsUsername = "FLITHUB_METRICS_USERNAME"
	EnvMetricsPassword = "FLITHUB_METRICS_PASSWORD"

	// Sentry
	EnvSentryDSN         = "FLITHUB_SENTRY_DSN"
	EnvSentryEnvironment = "FLITHUB_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "FLITHUB_SENTRY_RELEASE"
	EnvSentrySampleRate  = "FLITHUB_SENTRY_SAMPLE_RATE"
)
