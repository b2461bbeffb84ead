package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// LastRunKey is the cache key holding the JSON summary of the latest run.
const LastRunKey = "gifgen:last_run"

const defaultStatusWriteTimeout = 5 * time.Second

// StatusServiceOptions groups dependencies for StatusService.
type StatusServiceOptions struct {
	Cache        core.CacheRepository      // Optional: last-run cache (Redis or in-process)
	History      core.RunHistoryRepository // Optional: persistent run history
	TTL          time.Duration             // Optional: 0 keeps the entry forever
	WriteTimeout time.Duration             // Optional: defaults to 5s
	Logger       *slog.Logger
}

// StatusService records finished runs for operators. It implements
// core.RunObserver; write failures are logged and never reach the job runner.
type StatusService struct {
	cache        core.CacheRepository
	history      core.RunHistoryRepository
	ttl          time.Duration
	writeTimeout time.Duration
	logger       *slog.Logger
}

var _ core.RunObserver = (*StatusService)(nil)

// NewStatusService constructs a StatusService.
func NewStatusService(opts StatusServiceOptions) *StatusService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = defaultStatusWriteTimeout
	}
	return &StatusService{
		cache:        opts.Cache,
		history:      opts.History,
		ttl:          opts.TTL,
		writeTimeout: timeout,
		logger:       logger.With("component", "status_service"),
	}
}

// RunFinished caches and persists summary. It outlives cancellation of ctx
// so a run aborted by shutdown is still recorded.
func (s *StatusService) RunFinished(ctx context.Context, summary model.RunSummary) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	log := s.logger.With("run_id", summary.RunID)
	if s.cache != nil {
		if err := s.cacheLastRun(wctx, summary); err != nil {
			log.WarnContext(ctx, "failed to cache last run", "error", err)
		}
	}
	if s.history != nil {
		if err := s.history.Record(wctx, summary); err != nil {
			log.WarnContext(ctx, "failed to record run history", "error", err)
		}
	}
}

func (s *StatusService) cacheLastRun(ctx context.Context, summary model.RunSummary) error {
	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	return s.cache.Set(ctx, LastRunKey, b, s.ttl)
}

// LastRun returns the most recent run summary. It reads the cache first and
// falls back to the history store. NotFound is returned when neither has one.
func (s *StatusService) LastRun(ctx context.Context) (*model.RunSummary, error) {
	if s.cache != nil {
		b, err := s.cache.Get(ctx, LastRunKey)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "last run cache read failed", "error", err)
		case b != nil:
			var summary model.RunSummary
			if err := json.Unmarshal(b, &summary); err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode cached run summary")
			}
			return &summary, nil
		}
	}

	if s.history != nil {
		runs, err := s.history.ListRecent(ctx, 1)
		if err != nil {
			return nil, err
		}
		if len(runs) > 0 {
			return &runs[0], nil
		}
	}
	return nil, apperrors.NotFound("no runs recorded yet")
}

// ClearLastRun drops the cached last-run entry, for example after the
// history store was truncated. It reports whether an entry existed.
func (s *StatusService) ClearLastRun(ctx context.Context) (bool, error) {
	if s.cache == nil {
		return false, apperrors.Configuration("STATUS_CACHE_ENABLED", "status cache is disabled")
	}
	removed, err := s.cache.Delete(ctx, LastRunKey)
	if err != nil {
		return false, fmt.Errorf("clear last run: %w", err)
	}
	return removed, nil
}

// Recent lists up to limit runs from the history store, newest first.
func (s *StatusService) Recent(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if s.history == nil {
		return nil, apperrors.Configuration("HISTORY_ENABLED", "run history is disabled")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.history.ListRecent(ctx, limit)
}

// Run returns a single run from the history store.
func (s *StatusService) Run(ctx context.Context, runID string) (*model.RunSummary, error) {
	if s.history == nil {
		return nil, apperrors.Configuration("HISTORY_ENABLED", "run history is disabled")
	}
	return s.history.GetByID(ctx, runID)
}

// Health checks the cache connection when one is configured.
func (s *StatusService) Health(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Health(ctx)
}
