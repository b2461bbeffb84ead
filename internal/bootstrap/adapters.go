package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rajatvd/GifGenerator/config"
	"github.com/rajatvd/GifGenerator/internal/adapters/credentials"
	"github.com/rajatvd/GifGenerator/internal/adapters/gdrive"
	"github.com/rajatvd/GifGenerator/internal/adapters/renderer"
	"github.com/rajatvd/GifGenerator/internal/adapters/telegram"
	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/generator"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// credentialsEnvPrefix lets GIFGEN_TOKEN / GIFGEN_ID override the credential file.
const credentialsEnvPrefix = "GIFGEN"

// BuildRenderer constructs the configured generator backend.
//
//nolint:ireturn // backend is chosen at runtime.
func BuildRenderer(cfg config.RendererConfig, logger *slog.Logger) (core.Renderer, error) {
	switch cfg.Backend {
	case config.RendererHTTP:
		r, err := renderer.NewHTTP(renderer.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			ResultPath: cfg.ResultPath,
		})
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "build http renderer")
		}
		return r, nil
	case config.RendererExec, "":
		r, err := renderer.NewExec(renderer.ExecOptions{
			Command:   cfg.Command,
			Args:      cfg.Args,
			Dir:       cfg.Dir,
			WaitDelay: cfg.WaitDelay,
			Logger:    logger,
		})
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "build exec renderer")
		}
		return r, nil
	default:
		return nil, apperrors.Configurationf("RENDERER_BACKEND", "unknown renderer backend %q", cfg.Backend)
	}
}

// BuildDeliveryChannel constructs the configured delivery channel.
//
//nolint:ireturn // channel is chosen at runtime.
func BuildDeliveryChannel(cfg config.DeliveryConfig, logger *slog.Logger) (core.DeliveryChannel, error) {
	switch cfg.Channel {
	case config.ChannelGDrive:
		ch, err := gdrive.New(gdrive.Options{
			ClientID:     cfg.GDriveClientID,
			ClientSecret: cfg.GDriveClientSecret,
			Logger:       logger,
		})
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "build gdrive channel")
		}
		return ch, nil
	case config.ChannelTelegram, "":
		return telegram.New(telegram.Options{
			BaseURL:     cfg.TelegramBaseURL,
			MinInterval: cfg.RateInterval,
			Logger:      logger,
		}), nil
	default:
		return nil, apperrors.Configurationf("DELIVERY_CHANNEL", "unknown delivery channel %q", cfg.Channel)
	}
}

// LoadDestination reads the credential store.
func LoadDestination(cfg config.DeliveryConfig) (model.Destination, error) {
	return credentials.Load(credentials.Options{
		Path:      cfg.CredentialsFile,
		EnvPrefix: credentialsEnvPrefix,
	})
}

// BuildRegistry registers the built-in generators against one backend.
func BuildRegistry(r core.Renderer) (*generator.Registry, error) {
	return generator.NewRegistry(generator.Builtins(r.Render)...)
}

// BuildJobSpec resolves the configured generator in registry, merges the
// config overrides over its defaults and creates its output directory.
func BuildJobSpec(cfg config.AppConfig, registry *generator.Registry, dest model.Destination) (model.JobSpec, error) {
	capability, err := registry.Lookup(cfg.Generator.Name)
	if err != nil {
		return model.JobSpec{}, err
	}
	overrides, err := cfg.Generator.Overrides()
	if err != nil {
		return model.JobSpec{}, err
	}

	outputDir := capability.OutputDir(cfg.Generator.OutputRoot)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return model.JobSpec{}, apperrors.Wrapf(err, apperrors.ErrCodeConfiguration,
			"create output directory %s", filepath.Clean(outputDir))
	}

	spec := model.JobSpec{
		GeneratorName:     capability.Name,
		Config:            capability.DefaultConfig.Merge(overrides),
		Destination:       dest,
		OutputDir:         outputDir,
		NamePrefix:        capability.Prefix,
		Extension:         capability.Extension,
		ArtifactCount:     cfg.Generator.Count,
		PerAttemptTimeout: cfg.Generator.AttemptTimeout,
		MaxAttempts:       cfg.Generator.MaxAttempts,
		Interval:          cfg.Generator.Interval(),
		DeliveryTimeout:   cfg.Delivery.Timeout,
	}
	if err := spec.Validate(); err != nil {
		return model.JobSpec{}, fmt.Errorf("job spec: %w", err)
	}
	return spec, nil
}
