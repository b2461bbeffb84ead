package config

import (
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - generator.go: what to generate, how often and with which limits
//   - delivery.go: delivery channel and renderer backend
//   - database.go: run history (Postgres) and status cache (Redis)
//   - http.go: status endpoint
//   - observability.go: metrics and failure notifications
type AppConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Generator GeneratorConfig
	Delivery  DeliveryConfig
	Renderer  RendererConfig

	// Persistence
	History     HistoryConfig
	StatusCache StatusCacheConfig

	// HTTP status endpoint
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Generator.Sanitize()
	c.Delivery.Sanitize()
	c.Renderer.Sanitize()
	c.StatusCache.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports every invalid setting as a configuration error. Call it
// after Sanitize.
func (c *AppConfig) Validate() error {
	var errs []error
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs,
		c.Generator.Validate(),
		c.Delivery.Validate(),
		c.Renderer.Validate(),
	)
	return errors.Join(errs...)
}

// ParseLogLevel maps LOG_LEVEL onto a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, apperrors.Configurationf("LOG_LEVEL", "unknown log level %q", level)
	}
}
