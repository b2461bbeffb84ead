package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	"github.com/rajatvd/GifGenerator/internal/observability/metrics"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
)

// JobRunner runs one job. JobService implements it.
type JobRunner interface {
	RunJob(ctx context.Context, spec model.JobSpec) (model.RunSummary, error)
}

// SchedulerServiceOptions groups dependencies for SchedulerService.
type SchedulerServiceOptions struct {
	Jobs    JobRunner     // Required
	Spec    model.JobSpec // Required: Interval must be > 0
	Clock   core.Clock    // Optional: defaults to time.Now
	Logger  *slog.Logger  // Optional
	Metrics statsd.Sink   // Optional
}

// SchedulerService runs the job immediately and then on a fixed-rate grid
// anchored at the first run's start. Runs never overlap: grid points that
// pass while a run is still going are skipped, not queued.
type SchedulerService struct {
	jobs    JobRunner
	spec    model.JobSpec
	clock   core.Clock
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewSchedulerService validates the interval and constructs the service.
func NewSchedulerService(opts SchedulerServiceOptions) (*SchedulerService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("job runner is required")
	}
	if opts.Spec.Interval <= 0 {
		return nil, apperrors.Configuration("GIFGEN_INTERVAL", "interval must be > 0")
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SchedulerService{
		jobs:    opts.Jobs,
		spec:    opts.Spec,
		clock:   clock,
		logger:  logger.With("component", "scheduler", "generator", opts.Spec.GeneratorName),
		metrics: opts.Metrics,
	}, nil
}

// Run blocks until ctx is done. Job errors are logged and never stop the
// loop. Returns nil on graceful shutdown (context.Canceled).
func (s *SchedulerService) Run(ctx context.Context) error {
	interval := s.spec.Interval
	s.logger.InfoContext(ctx, "starting scheduler", "interval", interval, "count", s.spec.ArtifactCount)

	scheduled := s.clock.Now()
	s.runOnce(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return s.stopped(ctx)
		}

		now := s.clock.Now()
		next, skipped := nextFire(scheduled, interval, now)
		if skipped > 0 {
			s.logger.WarnContext(ctx, "job run overran interval, skipping ticks",
				"skipped", skipped,
				"next_run", next,
			)
			metrics.EmitTicksSkipped(s.metrics, s.spec.GeneratorName, skipped)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return s.stopped(ctx)
		case <-timer.C:
		}

		scheduled = next
		s.runOnce(ctx)
	}
}

func (s *SchedulerService) stopped(ctx context.Context) error {
	s.logger.InfoContext(ctx, "scheduler stopping", "reason", ctx.Err())
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (s *SchedulerService) runOnce(ctx context.Context) {
	summary, err := s.jobs.RunJob(ctx, s.spec)
	if err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "scheduled job run failed", "run_id", summary.RunID, "error", err)
	}
}

// nextFire returns the first grid point after last that is not in the past,
// plus how many grid points were passed over. The grid is last + k*interval.
func nextFire(last time.Time, interval time.Duration, now time.Time) (time.Time, int) {
	candidate := last.Add(interval)
	if !now.After(candidate) {
		return candidate, 0
	}
	elapsed := now.Sub(last)
	k := int64(elapsed / interval)
	if elapsed%interval != 0 {
		k++
	}
	return last.Add(time.Duration(k) * interval), int(k - 1)
}
