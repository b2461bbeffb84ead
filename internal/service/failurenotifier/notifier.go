// Package failurenotifier fans failure events out to every configured operator sink.
package failurenotifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the failure notifier service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
	// SendTimeout bounds each sink call so a slow webhook cannot stall a job run.
	SendTimeout time.Duration
	// MinSeverity drops payloads below it. Empty accepts everything.
	MinSeverity string
}

// Service dispatches failure events to all registered sinks.
type Service struct {
	logger      *slog.Logger
	sinks       []SinkRegistration
	sendTimeout time.Duration
	minRank     int
}

var _ core.FailureNotifier = (*Service)(nil)

// NewService constructs a failure notifier.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		if entry.Name == "" {
			entry.Name = "sink"
		}
		sinks = append(sinks, entry)
	}

	timeout := opts.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Service{
		logger:      logger.With("component", "failure_notifier"),
		sinks:       sinks,
		sendTimeout: timeout,
		minRank:     severityRank(opts.MinSeverity),
	}
}

func severityRank(severity string) int {
	if severity == notify.SeverityCritical {
		return 1
	}
	return 0
}

// NotifyFailure fans the payload out to all sinks and waits for them.
// Sink errors are logged, never returned.
func (s *Service) NotifyFailure(ctx context.Context, payload notify.FailurePayload) {
	if len(s.sinks) == 0 {
		return
	}

	if payload.Severity == "" {
		payload.Severity = notify.SeverityCritical
	}
	if severityRank(payload.Severity) < s.minRank {
		return
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}

	// Notifications for an aborted run should still go out while the
	// process shuts down.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendFailure(sendCtx, payload); err != nil {
				s.logger.ErrorContext(ctx, "failure notifier delivery error",
					"sink", entry.Name,
					"run_id", payload.RunID,
					"stage", payload.Stage,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

// Enabled reports whether the notifier has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}
