package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/rajatvd/GifGenerator/internal/domain/generator"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	"github.com/rajatvd/GifGenerator/internal/domain/naming"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	"github.com/rajatvd/GifGenerator/internal/observability/metrics"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
)

// RetryEvent is passed to the OnRetry hook before attempt n > 1.
type RetryEvent struct {
	Generator   string
	Attempt     int
	MaxAttempts int
	// PreviousTimedOut is false when the previous attempt returned an error.
	PreviousTimedOut bool
	PreviousErr      error
}

// GenerationServiceOptions groups dependencies for GenerationService.
type GenerationServiceOptions struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
	// OnRetry is called synchronously before every retry.
	OnRetry func(ctx context.Context, ev RetryEvent)
}

// GenerationRequest describes one artifact to produce.
type GenerationRequest struct {
	Generator   string
	Config      model.GenerationConfig
	OutputDir   string
	Prefix      string
	Extension   string
	Timeout     time.Duration
	MaxAttempts int
	Render      generator.RenderFunc
}

// RequestFromSpec builds the generation request for one iteration of spec.
func RequestFromSpec(spec model.JobSpec, render generator.RenderFunc) GenerationRequest {
	return GenerationRequest{
		Generator:   spec.GeneratorName,
		Config:      spec.Config,
		OutputDir:   spec.OutputDir,
		Prefix:      spec.NamePrefix,
		Extension:   spec.Extension,
		Timeout:     spec.PerAttemptTimeout,
		MaxAttempts: spec.MaxAttempts,
		Render:      render,
	}
}

func (r GenerationRequest) validate() error {
	switch {
	case r.MaxAttempts < 1:
		return apperrors.Configuration("GIFGEN_MAX_ATTEMPTS", "max attempts must be >= 1")
	case r.Timeout <= 0:
		return apperrors.Configuration("GIFGEN_ATTEMPT_TIMEOUT", "per-attempt timeout must be > 0")
	case r.Render == nil:
		return apperrors.Configurationf("GIFGEN_GENERATOR", "generator %q has no backend", r.Generator)
	}
	return nil
}

// GenerationService produces one artifact with a per-attempt deadline and a
// bounded number of attempts.
type GenerationService struct {
	logger  *slog.Logger
	metrics statsd.Sink
	onRetry func(ctx context.Context, ev RetryEvent)
}

// NewGenerationService constructs a GenerationService.
func NewGenerationService(opts GenerationServiceOptions) *GenerationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{
		logger:  logger.With("component", "generation_service"),
		metrics: opts.Metrics,
		onRetry: opts.OnRetry,
	}
}

// GenerateWithRetry runs up to req.MaxAttempts bounded attempts and returns
// the first success.
//
// Running out of attempts is a normal outcome reported through the result:
// FailureTimeoutExhausted when every attempt timed out, otherwise
// FailureGeneratorFailed. The error return is reserved for conditions that
// must end the whole run: an unreadable output directory, a canceled
// context or an invalid request.
func (s *GenerationService) GenerateWithRetry(ctx context.Context, req GenerationRequest) (model.ArtifactResult, error) {
	if err := req.validate(); err != nil {
		return model.ArtifactResult{}, err
	}

	var (
		timeouts int
		lastErr  error
	)
	for attempt := 1; attempt <= req.MaxAttempts; attempt++ {
		if attempt > 1 {
			s.notifyRetry(ctx, RetryEvent{
				Generator:        req.Generator,
				Attempt:          attempt,
				MaxAttempts:      req.MaxAttempts,
				PreviousTimedOut: isAttemptTimeout(lastErr),
				PreviousErr:      lastErr,
			})
		}
		if err := ctx.Err(); err != nil {
			return model.ArtifactResult{}, apperrors.Wrap(err, apperrors.ErrCodeCanceled, "generation canceled")
		}

		path, timedOut, err := s.attempt(ctx, req, attempt)
		switch {
		case err == nil:
			metrics.EmitGenerationResult(s.metrics, req.Generator, "", attempt)
			return model.Success(path, attempt), nil
		case apperrors.IsDirectoryUnreadable(err), apperrors.IsConflict(err), apperrors.IsCanceled(err):
			return model.ArtifactResult{}, err
		case timedOut:
			timeouts++
		}
		lastErr = err
	}

	reason := model.FailureGeneratorFailed
	if timeouts == req.MaxAttempts {
		reason = model.FailureTimeoutExhausted
	}
	metrics.EmitGenerationResult(s.metrics, req.Generator, string(reason), req.MaxAttempts)
	return model.Failure(reason, req.MaxAttempts, lastErr), nil
}

// errAttemptTimeout marks an attempt that hit its deadline.
var errAttemptTimeout = errors.New("attempt timed out")

func isAttemptTimeout(err error) bool {
	return errors.Is(err, errAttemptTimeout)
}

// attempt claims an output name and renders into a private staging path
// under the deadline. Only a completed render is promoted onto the claimed
// name; an abandoned render can keep writing to its staging file without
// touching any numbered artifact.
func (s *GenerationService) attempt(ctx context.Context, req GenerationRequest, n int) (string, bool, error) {
	name, err := naming.Claim(req.OutputDir, req.Prefix, req.Extension)
	if err != nil {
		return "", false, err
	}
	out := name.Path()
	staging := naming.StagingPath(name)
	log := s.logger.With("generator", req.Generator, "attempt", n, "output", out)

	res := RunBounded(ctx, req.Timeout, func(actx context.Context) (string, error) {
		return req.Render(actx, model.RenderRequest{
			Generator:  req.Generator,
			Config:     req.Config.Clone(),
			OutputPath: staging,
		})
	})

	result := metrics.ResultSuccess
	var attemptErr error
	switch {
	case res.Canceled:
		attemptErr = apperrors.Wrap(res.Err, apperrors.ErrCodeCanceled, "generation canceled")
		result = metrics.ResultAborted
	case res.TimedOut:
		attemptErr = fmt.Errorf("attempt %d after %s: %w", n, req.Timeout, errAttemptTimeout)
		result = metrics.ResultTimeout
		log.WarnContext(ctx, "generation attempt timed out", "timeout", req.Timeout, "staging", staging)
	case res.Err != nil:
		attemptErr = apperrors.Wrapf(res.Err, apperrors.ErrCodeGenerator, "attempt %d", n)
		result = metrics.ResultError
		log.WarnContext(ctx, "generation attempt failed", "error", res.Err)
	}

	var path string
	if attemptErr == nil {
		path, attemptErr = s.finish(ctx, res.Value, staging, name)
		if attemptErr != nil {
			result = metrics.ResultError
			log.WarnContext(ctx, "generation attempt produced no artifact", "error", attemptErr)
		}
	}
	metrics.EmitAttempt(s.metrics, metrics.AttemptMetric{
		Generator: req.Generator,
		Attempt:   n,
		Result:    result,
		Duration:  res.Elapsed,
		Err:       attemptErr,
	})

	if attemptErr != nil {
		// The staging file of an abandoned render is left alone: the render
		// may still be writing to it.
		if res.Completed {
			s.discard(ctx, staging)
		}
		s.release(ctx, out)
		return "", res.TimedOut, attemptErr
	}

	log.InfoContext(ctx, "artifact generated", "path", path, "elapsed", res.Elapsed)
	return path, false, nil
}

// finish resolves the path a completed render reported. The staging file
// (reported or implied by an empty path) is promoted onto the claimed name.
// A backend that reports some other existing file keeps it and the claim
// is dropped.
func (s *GenerationService) finish(ctx context.Context, reported, staging string, name model.NumberedFilename) (string, error) {
	if reported == "" || reported == staging {
		if err := naming.Promote(staging, name); err != nil {
			return "", apperrors.Wrap(err, apperrors.ErrCodeGenerator, "render produced no output")
		}
		return name.Path(), nil
	}
	if reported == name.Path() {
		return reported, nil
	}
	s.discard(ctx, staging)
	s.release(ctx, name.Path())
	return reported, nil
}

func (s *GenerationService) discard(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.WarnContext(ctx, "failed to remove staging file", "path", path, "error", err)
	}
}

func (s *GenerationService) release(ctx context.Context, path string) {
	if err := naming.Release(path); err != nil {
		s.logger.WarnContext(ctx, "failed to release output placeholder", "path", path, "error", err)
	}
}

func (s *GenerationService) notifyRetry(ctx context.Context, ev RetryEvent) {
	s.logger.WarnContext(ctx, "retrying artifact generation",
		"generator", ev.Generator,
		"attempt", ev.Attempt,
		"max_attempts", ev.MaxAttempts,
		"previous_timed_out", ev.PreviousTimedOut,
		"previous_error", ev.PreviousErr,
	)
	metrics.EmitRetry(s.metrics, ev.Generator, ev.Attempt)
	if s.onRetry != nil {
		s.onRetry(ctx, ev)
	}
}
