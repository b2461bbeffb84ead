package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rajatvd/GifGenerator/config"
	"github.com/rajatvd/GifGenerator/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger("info")
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.LogLevel)

	logStartupInfo(ctx, logger, &cfg)

	services, err := bootstrap.NewServices(ctx, bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	return bootstrap.RunWithShutdown(ctx, &cfg, services, logger)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting gifgen",
		"generator", cfg.Generator.Name,
		"interval", cfg.Generator.Interval(),
		"count", cfg.Generator.Count,
		"channel", cfg.Delivery.Channel,
		"renderer", cfg.Renderer.Backend,
		"history_enabled", cfg.History.Enabled,
		"status_cache_enabled", cfg.StatusCache.Enabled,
		"http_enabled", cfg.HTTP.Enabled,
	)
}
