// Package scheduler wires the generation pipeline into a runnable loop.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/data"
	"github.com/rajatvd/GifGenerator/internal/domain/generator"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	obserrors "github.com/rajatvd/GifGenerator/internal/observability/errors"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
	"github.com/rajatvd/GifGenerator/internal/service"
)

// Runner owns the generation, job and scheduler services for one JobSpec.
type Runner struct {
	spec      model.JobSpec
	jobs      *service.JobService
	scheduler *service.SchedulerService
	clock     core.Clock
	logger    *slog.Logger
	metrics   statsd.Sink
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Spec     model.JobSpec        // Required
	Registry *generator.Registry  // Required
	Channel  core.DeliveryChannel // Required

	Notifier  core.FailureNotifier // Optional
	Observers []core.RunObserver   // Optional
	Clock     core.Clock           // Optional: defaults to data.RealTimeProvider
	Logger    *slog.Logger         // Optional
	Metrics   statsd.Sink          // Optional

	// Optional dependency injection for tests.
	NewRunID func() string
}

// NewRunner validates the options and wires the services.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	generation := service.NewGenerationService(service.GenerationServiceOptions{
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Registry:   opts.Registry,
		Generation: generation,
		Channel:    opts.Channel,
		Notifier:   opts.Notifier,
		Observers:  opts.Observers,
		Clock:      opts.Clock,
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
		NewRunID:   opts.NewRunID,
	})
	if err != nil {
		return nil, err
	}

	r := &Runner{
		spec:    opts.Spec,
		jobs:    jobs,
		clock:   opts.Clock,
		logger:  opts.Logger.With("component", "scheduler_runner"),
		metrics: opts.Metrics,
	}

	sched, err := service.NewSchedulerService(service.SchedulerServiceOptions{
		Jobs:    r,
		Spec:    opts.Spec,
		Clock:   opts.Clock,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	r.scheduler = sched
	return r, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.Registry == nil {
		return errors.New("generator registry is required")
	}
	if opts.Channel == nil {
		return errors.New("delivery channel is required")
	}
	if err := opts.Spec.Validate(); err != nil {
		return err
	}
	if opts.Clock == nil {
		opts.Clock = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// Spec returns the job the runner drives.
func (r *Runner) Spec() model.JobSpec { return r.spec }

// Run starts the scheduler loop and runs until the context is cancelled.
// Returns nil on graceful shutdown.
func (r *Runner) Run(ctx context.Context) error {
	return r.scheduler.Run(ctx)
}

// RunOnce performs a single job run outside the schedule.
func (r *Runner) RunOnce(ctx context.Context) (model.RunSummary, error) {
	return r.RunJob(ctx, r.spec)
}

// RunJob implements service.JobRunner and records liveness gauges around
// each run.
func (r *Runner) RunJob(ctx context.Context, spec model.JobSpec) (model.RunSummary, error) {
	summary, err := r.jobs.RunJob(ctx, spec)
	r.emitRunGauges(summary, err)
	return summary, err
}

func (r *Runner) emitRunGauges(summary model.RunSummary, err error) {
	if r.metrics == nil {
		return
	}
	tags := map[string]string{"generator": r.spec.GeneratorName}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
		r.metrics.Count("scheduler.run_aborted", 1, tags)
		return
	}
	r.metrics.Gauge("scheduler.last_success_epoch", float64(r.clock.Now().Unix()), tags)
	if !summary.FinishedAt.IsZero() {
		r.metrics.Gauge("scheduler.last_run_seconds", summary.Duration().Round(time.Millisecond).Seconds(), tags)
	}
}
