package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rajatvd/GifGenerator/config"
	"github.com/rajatvd/GifGenerator/internal/adapters/scheduler"
	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/data"
	"github.com/rajatvd/GifGenerator/internal/domain/generator"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	"github.com/rajatvd/GifGenerator/internal/observability/notify/pagerduty"
	"github.com/rajatvd/GifGenerator/internal/observability/notify/slack"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
	"github.com/rajatvd/GifGenerator/internal/service"
	"github.com/rajatvd/GifGenerator/internal/service/failurenotifier"
)

// ServiceContainer holds the wired pipeline and its supporting connections.
type ServiceContainer struct {
	Spec          model.JobSpec
	Registry      *generator.Registry
	Channel       core.DeliveryChannel
	Runner        *scheduler.Runner
	Status        *service.StatusService
	History       *data.RunHistoryRepo // nil when history is disabled
	Observability ObservabilityContainer

	db    *sql.DB
	redis redis.UniversalClient
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink     *statsd.Client
	MetricsConfig   config.ObservabilityMetricsConfig
	FailureNotifier *failurenotifier.Service
	NotifierConfig  config.ObservabilityNotificationsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger

	// Optional overrides, mainly for tests and the admin CLI.
	Renderer    core.Renderer
	Channel     core.DeliveryChannel
	Destination *model.Destination
}

// statusCacheCleanup is how often the in-process cache evicts expired entries.
const statusCacheCleanup = 10 * time.Minute

// NewServices connects optional stores and wires the pipeline. Any failure
// is returned before anything starts running; callers must Close the
// container.
func NewServices(ctx context.Context, deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &ServiceContainer{Observability: buildObservability(logger, cfg.Observability)}
	if err := c.wire(ctx, cfg, deps, logger); err != nil {
		if closeErr := c.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, err
	}
	return c, nil
}

func (c *ServiceContainer) wire(ctx context.Context, cfg *config.AppConfig, deps ServiceDeps, logger *slog.Logger) error {
	var err error

	render := deps.Renderer
	if render == nil {
		if render, err = BuildRenderer(cfg.Renderer, logger); err != nil {
			return err
		}
	}
	if c.Registry, err = BuildRegistry(render); err != nil {
		return err
	}

	c.Channel = deps.Channel
	if c.Channel == nil {
		if c.Channel, err = BuildDeliveryChannel(cfg.Delivery, logger); err != nil {
			return err
		}
	}

	var dest model.Destination
	if deps.Destination != nil {
		dest = *deps.Destination
	} else if dest, err = LoadDestination(cfg.Delivery); err != nil {
		return err
	}

	if c.Spec, err = BuildJobSpec(*cfg, c.Registry, dest); err != nil {
		return err
	}

	if err := c.connectStores(ctx, cfg, logger); err != nil {
		return err
	}

	c.Status = service.NewStatusService(service.StatusServiceOptions{
		Cache:   c.statusCache(),
		History: c.historyRepo(),
		TTL:     cfg.StatusCache.TTL,
		Logger:  logger,
	})

	var sink statsd.Sink
	if c.Observability.MetricsSink != nil {
		sink = c.Observability.MetricsSink
	}
	c.Runner, err = scheduler.NewRunner(scheduler.RunnerOptions{
		Spec:      c.Spec,
		Registry:  c.Registry,
		Channel:   c.Channel,
		Notifier:  c.Observability.FailureNotifier,
		Observers: []core.RunObserver{c.Status},
		Logger:    logger,
		Metrics:   sink,
	})
	return err
}

func (c *ServiceContainer) connectStores(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg.History.Enabled {
		db, err := ConnectDB(ctx, DatabaseConfig{DBConfig: cfg.History.Postgres, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect run history: %w", err)
		}
		c.db = db
		if cfg.History.Postgres.RunMigrationsOnStart {
			if err := RunMigrations(ctx, db, logger); err != nil {
				return err
			}
		}
		c.History = data.NewRunHistoryRepo(db)
	}

	if cfg.StatusCache.Enabled {
		client, err := ConnectRedis(ctx, DatabaseConfig{RedisConfig: cfg.StatusCache.Redis, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect status cache: %w", err)
		}
		c.redis = client
	}
	return nil
}

//nolint:ireturn // Redis or in-process.
func (c *ServiceContainer) statusCache() core.CacheRepository {
	if c.redis != nil {
		return data.NewRedisCacheRepo(c.redis)
	}
	return data.NewMemoryCacheRepo(statusCacheCleanup)
}

//nolint:ireturn // a typed nil must not leak into the interface.
func (c *ServiceContainer) historyRepo() core.RunHistoryRepository {
	if c.History == nil {
		return nil
	}
	return c.History
}

// Close releases the database, Redis and metrics connections.
func (c *ServiceContainer) Close() error {
	var errs []error
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := c.Observability.MetricsSink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:     metricsSink,
		MetricsConfig:   cfg.Metrics,
		FailureNotifier: buildFailureNotifier(obsLogger, cfg.Notifications),
		NotifierConfig:  cfg.Notifications,
	}
}

func buildFailureNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *failurenotifier.Service {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	if !cfg.Enabled {
		return failurenotifier.NewService(failurenotifier.Options{Logger: baseLogger})
	}

	sinks := make([]failurenotifier.SinkRegistration, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
			StatusURL:  cfg.Slack.StatusURL,
		})
		if err != nil {
			baseLogger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{Name: "slack", Sink: client})
		}
	}

	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{Name: "pagerduty", Sink: client})
		}
	}

	return failurenotifier.NewService(failurenotifier.Options{
		Logger:      baseLogger,
		Sinks:       sinks,
		SendTimeout: cfg.Timeout * time.Duration(cfg.RetryLimit+1),
		MinSeverity: cfg.MinSeverity,
	})
}

// RunWithShutdown runs the scheduler and, when enabled, the status HTTP
// server until SIGINT/SIGTERM or until one of them fails. An in-flight job
// run sees its context cancelled; there is no drain.
func RunWithShutdown(ctx context.Context, cfg *config.AppConfig, c *ServiceContainer, logger *slog.Logger) error {
	if cfg == nil || c == nil {
		return errors.New("config and services are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.Runner.Run(gctx); err != nil {
			return fmt.Errorf("scheduler failed: %w", err)
		}
		return nil
	})

	if cfg.HTTP.Enabled {
		server := NewHTTPServer(HTTPServerConfig{Config: cfg, Services: c, Logger: logger})
		g.Go(func() error {
			return ServeHTTP(gctx, server, cfg.HTTP.ShutdownTimeout, logger)
		})
	}

	err := g.Wait()
	logger.Info("shutdown complete")
	return err
}
