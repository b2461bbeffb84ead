// Package notify defines the failure payload shared by operator notification sinks.
package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Stage names where a failure can happen.
const (
	StageGeneration = "generation"
	StageDelivery   = "delivery"
	StageRun        = "run"
)

// FailurePayload captures what we emit when an artifact or a whole run fails.
type FailurePayload struct {
	RunID      string
	Generator  string
	Stage      string
	Seq        int
	Attempts   int
	Reason     string
	Error      string
	ErrorClass string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink describes a destination capable of consuming failure notifications.
type Sink interface {
	SendFailure(ctx context.Context, payload FailurePayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload FailurePayload) error

// SendFailure implements the Sink interface.
func (f SinkFunc) SendFailure(ctx context.Context, payload FailurePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
