package config

import (
	"strings"
	"time"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// GeneratorConfig selects the generator kind and the per-run limits.
type GeneratorConfig struct {
	Name       string `env:"GIFGEN_GENERATOR"   envDefault:"neural_ode"`
	OutputRoot string `env:"GIFGEN_OUTPUT_ROOT" envDefault:"gifs"`

	// Interval components are summed.
	Hours   int `env:"GIFGEN_HOURS"   envDefault:"1"`
	Minutes int `env:"GIFGEN_MINUTES" envDefault:"0"`
	Seconds int `env:"GIFGEN_SECONDS" envDefault:"0"`

	Count          int           `env:"GIFGEN_COUNT"           envDefault:"2"`
	AttemptTimeout time.Duration `env:"GIFGEN_ATTEMPT_TIMEOUT" envDefault:"10m"`
	MaxAttempts    int           `env:"GIFGEN_MAX_ATTEMPTS"    envDefault:"3"`

	// ConfigOverrides is a JSON object merged over the generator's defaults.
	ConfigOverrides string `env:"GIFGEN_CONFIG_OVERRIDES"`
}

// Sanitize trims string values.
func (c *GeneratorConfig) Sanitize() {
	c.Name = strings.TrimSpace(c.Name)
	c.OutputRoot = strings.TrimSpace(c.OutputRoot)
	c.ConfigOverrides = strings.TrimSpace(c.ConfigOverrides)
}

// Interval returns the time between scheduled runs.
func (c GeneratorConfig) Interval() time.Duration {
	return time.Duration(c.Hours)*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second
}

// Overrides decodes ConfigOverrides.
func (c GeneratorConfig) Overrides() (model.GenerationConfig, error) {
	cfg, err := model.ParseGenerationConfig(c.ConfigOverrides)
	if err != nil {
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodeConfiguration,
			Message: "invalid generator config overrides",
			Field:   "GIFGEN_CONFIG_OVERRIDES",
			Cause:   err,
		}
	}
	return cfg, nil
}

// Validate checks the limits.
func (c GeneratorConfig) Validate() error {
	switch {
	case c.Name == "":
		return apperrors.Configuration("GIFGEN_GENERATOR", "generator name is required")
	case c.OutputRoot == "":
		return apperrors.Configuration("GIFGEN_OUTPUT_ROOT", "output root is required")
	case c.Hours < 0 || c.Minutes < 0 || c.Seconds < 0:
		return apperrors.Configuration("GIFGEN_INTERVAL", "interval components must be >= 0")
	case c.Interval() <= 0:
		return apperrors.Configuration("GIFGEN_INTERVAL", "interval must be > 0")
	case c.Count < 0:
		return apperrors.Configuration("GIFGEN_COUNT", "artifact count must be >= 0")
	case c.AttemptTimeout <= 0:
		return apperrors.Configuration("GIFGEN_ATTEMPT_TIMEOUT", "per-attempt timeout must be > 0")
	case c.MaxAttempts < 1:
		return apperrors.Configuration("GIFGEN_MAX_ATTEMPTS", "max attempts must be >= 1")
	}
	_, err := c.Overrides()
	return err
}
