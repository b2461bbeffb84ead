package model

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// Destination identifies where delivered artifacts go and carries the credential
// the delivery channel needs. It is loaded once at startup and never mutated.
type Destination struct {
	ID    string
	Token string
}

// String redacts the token.
func (d Destination) String() string {
	return fmt.Sprintf("Destination{ID:%s Token:%s}", d.ID, redact(d.Token))
}

// LogValue implements slog.LogValuer so tokens never reach the logs.
func (d Destination) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", d.ID),
		slog.String("token", redact(d.Token)),
	)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

// JobSpec describes one recurring generation job. It is built once at startup
// and is read-only for the life of the process.
type JobSpec struct {
	GeneratorName     string
	Config            GenerationConfig
	Destination       Destination
	OutputDir         string
	NamePrefix        string
	Extension         string
	ArtifactCount     int
	PerAttemptTimeout time.Duration
	MaxAttempts       int
	Interval          time.Duration
	DeliveryTimeout   time.Duration
}

// Validate reports the first invalid field as a configuration error.
func (s JobSpec) Validate() error {
	switch {
	case strings.TrimSpace(s.GeneratorName) == "":
		return apperrors.Configuration("GIFGEN_GENERATOR", "generator name is required")
	case strings.TrimSpace(s.OutputDir) == "":
		return apperrors.Configuration("GIFGEN_OUTPUT_ROOT", "output directory is required")
	case s.NamePrefix == "":
		return apperrors.Configuration("GIFGEN_GENERATOR", "name prefix is required")
	case !strings.HasPrefix(s.Extension, ".") || len(s.Extension) < 2:
		return apperrors.Configurationf("GIFGEN_GENERATOR", "extension %q must start with a dot", s.Extension)
	case s.ArtifactCount < 0:
		return apperrors.Configuration("GIFGEN_COUNT", "artifact count must be >= 0")
	case s.PerAttemptTimeout <= 0:
		return apperrors.Configuration("GIFGEN_ATTEMPT_TIMEOUT", "per-attempt timeout must be > 0")
	case s.MaxAttempts < 1:
		return apperrors.Configuration("GIFGEN_MAX_ATTEMPTS", "max attempts must be >= 1")
	case s.Interval <= 0:
		return apperrors.Configuration("GIFGEN_INTERVAL", "interval must be > 0")
	case s.DeliveryTimeout < 0:
		return apperrors.Configuration("DELIVERY_TIMEOUT", "delivery timeout must be >= 0")
	}
	return nil
}
