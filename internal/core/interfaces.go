// Package core declares the ports the generation pipeline depends on.
// Services are written against these interfaces; adapters and the data
// layer provide the implementations.
package core

import (
	"context"
	"time"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
	"github.com/rajatvd/GifGenerator/internal/observability/notify"
)

// Renderer produces one artifact. Implementations must honour ctx
// cancellation where they can; the caller bounds wall-clock time regardless.
type Renderer interface {
	// Render writes the artifact for req and returns its final path, which is
	// usually req.OutputPath.
	Render(ctx context.Context, req model.RenderRequest) (string, error)
}

// DeliveryChannel opens sessions against an external delivery service.
type DeliveryChannel interface {
	Name() string
	// Connect validates the destination credentials and returns a session.
	// A failure here means nothing can be delivered in this run.
	Connect(ctx context.Context, dest model.Destination) (DeliverySession, error)
}

// DeliverySession sends artifacts for the lifetime of one job run.
type DeliverySession interface {
	Send(ctx context.Context, req model.DeliveryRequest) error
	Close() error
}

// RunHistoryRepository persists run summaries.
type RunHistoryRepository interface {
	Record(ctx context.Context, summary model.RunSummary) error
	GetByID(ctx context.Context, runID string) (*model.RunSummary, error)
	ListRecent(ctx context.Context, limit int) ([]model.RunSummary, error)
}

// RunObserver is told about every finished run, aborted or not.
type RunObserver interface {
	RunFinished(ctx context.Context, summary model.RunSummary)
}

// FailureNotifier fans out per-artifact and per-run failures to operators.
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, payload notify.FailurePayload)
}

// CacheRepository stores the last-run summary. Get returns nil, nil for a
// missing or expired key; a zero TTL never expires.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) error
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}
