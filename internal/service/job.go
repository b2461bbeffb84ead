// Package service implements the generation pipeline: bounded attempts,
// retries, job runs and the interval scheduler.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/generator"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	obserrors "github.com/rajatvd/GifGenerator/internal/observability/errors"
	"github.com/rajatvd/GifGenerator/internal/observability/metrics"
	"github.com/rajatvd/GifGenerator/internal/observability/notify"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Registry   *generator.Registry  // Required: generator capabilities
	Generation *GenerationService   // Required: retrying generator
	Channel    core.DeliveryChannel // Required: delivery channel
	Notifier   core.FailureNotifier // Optional: operator notifications
	Observers  []core.RunObserver   // Optional: status cache, run history
	Clock      core.Clock           // Optional: defaults to time.Now
	Logger     *slog.Logger         // Optional: structured logger
	Metrics    statsd.Sink          // Optional: metrics sink (StatsD-compatible)
	NewRunID   func() string        // Optional: defaults to uuid.NewString
}

// JobService produces ArtifactCount artifacts per run and delivers each one.
type JobService struct {
	registry   *generator.Registry
	generation *GenerationService
	channel    core.DeliveryChannel
	notifier   core.FailureNotifier
	observers  []core.RunObserver
	clock      core.Clock
	logger     *slog.Logger
	metrics    statsd.Sink
	newRunID   func() string
}

// NewJobService constructs a JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	switch {
	case opts.Registry == nil:
		return nil, errors.New("generator registry is required")
	case opts.Generation == nil:
		return nil, errors.New("generation service is required")
	case opts.Channel == nil:
		return nil, errors.New("delivery channel is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	return &JobService{
		registry:   opts.Registry,
		generation: opts.Generation,
		channel:    opts.Channel,
		notifier:   opts.Notifier,
		observers:  opts.Observers,
		clock:      clock,
		logger:     logger.With("component", "job_service"),
		metrics:    opts.Metrics,
		newRunID:   newRunID,
	}, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RunJob performs one job run: connect to the delivery channel, then for each
// of spec.ArtifactCount iterations generate with retries and deliver.
//
// Per-item failures (exhausted retries, delivery errors) are logged, notified
// and recorded in the summary; they never stop the run. A delivery channel
// that cannot be reached, an unreadable output directory or cancellation
// abort the run and are returned as the error. The summary is returned in
// every case.
func (s *JobService) RunJob(ctx context.Context, spec model.JobSpec) (model.RunSummary, error) {
	summary := model.RunSummary{
		RunID:     s.newRunID(),
		Generator: spec.GeneratorName,
		StartedAt: s.clock.Now(),
		Requested: spec.ArtifactCount,
	}
	log := s.logger.With("run_id", summary.RunID, "generator", spec.GeneratorName)
	log.InfoContext(ctx, "job run started", "count", spec.ArtifactCount, "output_dir", spec.OutputDir)

	err := s.run(ctx, spec, &summary, log)
	summary.FinishedAt = s.clock.Now()
	if err != nil {
		summary.Aborted = true
		summary.AbortError = err.Error()
		log.ErrorContext(ctx, "job run aborted", "error", err, "completed_items", len(summary.Items))
		s.notify(ctx, notify.FailurePayload{
			RunID:      summary.RunID,
			Generator:  summary.Generator,
			Stage:      notify.StageRun,
			Error:      err.Error(),
			ErrorClass: obserrors.Classify(err),
			Severity:   notify.SeverityCritical,
		})
	} else {
		log.InfoContext(ctx, "job run finished",
			"delivered", summary.Count(model.ItemDelivered),
			"generation_failed", summary.Count(model.ItemGenerationFailed),
			"delivery_failed", summary.Count(model.ItemDeliveryFailed),
			"duration", summary.Duration(),
		)
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultAborted
	}
	metrics.EmitRun(s.metrics, metrics.RunMetric{
		Generator: spec.GeneratorName,
		Result:    result,
		Delivered: summary.Count(model.ItemDelivered),
		Failed:    len(summary.Items) - summary.Count(model.ItemDelivered),
		Duration:  summary.Duration(),
		Err:       err,
	})

	for _, o := range s.observers {
		o.RunFinished(ctx, summary)
	}
	return summary, err
}

func (s *JobService) run(ctx context.Context, spec model.JobSpec, summary *model.RunSummary, log *slog.Logger) error {
	capability, err := s.registry.Lookup(spec.GeneratorName)
	if err != nil {
		return err
	}

	session, err := s.channel.Connect(ctx, spec.Destination)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDeliveryUnavailable, "connect to %s", s.channel.Name())
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.WarnContext(ctx, "closing delivery session failed", "error", cerr)
		}
	}()

	req := RequestFromSpec(spec, capability.Invoke)
	for seq := 1; seq <= spec.ArtifactCount; seq++ {
		if err := ctx.Err(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "job run canceled")
		}

		res, err := s.generation.GenerateWithRetry(ctx, req)
		if err != nil {
			return fmt.Errorf("item %d: %w", seq, err)
		}

		itemLog := log.With("seq", seq)
		if !res.Succeeded() {
			summary.Items = append(summary.Items, s.generationFailed(ctx, summary, seq, res, itemLog))
			continue
		}
		summary.Items = append(summary.Items, s.deliver(ctx, spec, session, summary, seq, res, itemLog))
	}
	return nil
}

func (s *JobService) generationFailed(
	ctx context.Context,
	summary *model.RunSummary,
	seq int,
	res model.ArtifactResult,
	log *slog.Logger,
) model.ItemOutcome {
	errText := ""
	if res.LastErr != nil {
		errText = res.LastErr.Error()
	}
	log.ErrorContext(ctx, "artifact generation failed, skipping",
		"reason", res.Reason,
		"attempts", res.Attempts,
		"error", res.LastErr,
	)
	s.notify(ctx, notify.FailurePayload{
		RunID:      summary.RunID,
		Generator:  summary.Generator,
		Stage:      notify.StageGeneration,
		Seq:        seq,
		Attempts:   res.Attempts,
		Reason:     string(res.Reason),
		Error:      errText,
		ErrorClass: obserrors.Classify(res.LastErr),
		Severity:   notify.SeverityWarning,
	})
	return model.ItemOutcome{
		Seq:           seq,
		Status:        model.ItemGenerationFailed,
		Attempts:      res.Attempts,
		FailureReason: res.Reason,
		Error:         errText,
	}
}

func (s *JobService) deliver(
	ctx context.Context,
	spec model.JobSpec,
	session core.DeliverySession,
	summary *model.RunSummary,
	seq int,
	res model.ArtifactResult,
	log *slog.Logger,
) model.ItemOutcome {
	outcome := model.ItemOutcome{Seq: seq, Path: res.Path, Attempts: res.Attempts, Status: model.ItemDelivered}

	sendCtx := ctx
	if spec.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, spec.DeliveryTimeout)
		defer cancel()
	}

	start := time.Now()
	err := session.Send(sendCtx, model.DeliveryRequest{
		Path:        res.Path,
		Destination: spec.Destination,
		Timeout:     spec.DeliveryTimeout,
	})
	metrics.EmitDelivery(s.metrics, s.channel.Name(), time.Since(start), err)

	if err == nil {
		log.InfoContext(ctx, "artifact delivered", "path", res.Path, "channel", s.channel.Name())
		return outcome
	}

	err = apperrors.Wrapf(err, apperrors.ErrCodeDelivery, "deliver %s", res.Path)
	log.ErrorContext(ctx, "artifact delivery failed", "path", res.Path, "error", err)
	s.notify(ctx, notify.FailurePayload{
		RunID:      summary.RunID,
		Generator:  summary.Generator,
		Stage:      notify.StageDelivery,
		Seq:        seq,
		Attempts:   res.Attempts,
		Error:      err.Error(),
		ErrorClass: obserrors.Classify(errors.Unwrap(err)),
		Severity:   notify.SeverityWarning,
		Metadata:   map[string]string{"path": res.Path, "channel": s.channel.Name()},
	})
	outcome.Status = model.ItemDeliveryFailed
	outcome.Error = err.Error()
	return outcome
}

func (s *JobService) notify(ctx context.Context, payload notify.FailurePayload) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyFailure(ctx, payload)
}
