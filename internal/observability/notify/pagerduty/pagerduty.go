package pagerduty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rajatvd/GifGenerator/internal/observability/notify"
)

// APIEndpoint is the PagerDuty Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

// Config captures runtime configuration for the PagerDuty sink.
type Config struct {
	RoutingKey string
	Source     string
	Component  string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// Endpoint overrides APIEndpoint (tests, proxies).
	Endpoint string
}

// Client publishes events via PagerDuty's Events API v2.
type Client struct {
	routingKey string
	source     string
	component  string
	endpoint   string
	retryLimit int
	client     *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient constructs a PagerDuty events client from config. Callers must provide a routing key.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		routingKey: key,
		source:     fallbackString(cfg.Source, "gifgen"),
		component:  fallbackString(cfg.Component, "gifgen"),
		endpoint:   fallbackString(cfg.Endpoint, APIEndpoint),
		retryLimit: max(cfg.RetryLimit, 0),
		client:     hc,
	}, nil
}

// SendFailure submits a trigger event to PagerDuty.
func (c *Client) SendFailure(ctx context.Context, payload notify.FailurePayload) error {
	body, err := json.Marshal(c.buildEvent(payload))
	if err != nil {
		return fmt.Errorf("encode pagerduty payload: %w", err)
	}
	return notify.PostJSON(ctx, c.client, c.endpoint, body, c.retryLimit, "pagerduty api")
}

func (c *Client) buildEvent(payload notify.FailurePayload) map[string]any {
	severity := fallbackString(strings.ToLower(payload.Severity), notify.SeverityCritical)

	occurredAt := payload.OccurredAt.UTC()
	if payload.OccurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	custom := map[string]any{
		"run_id":      payload.RunID,
		"generator":   payload.Generator,
		"stage":       payload.Stage,
		"seq":         payload.Seq,
		"attempts":    payload.Attempts,
		"reason":      payload.Reason,
		"error":       payload.Error,
		"error_class": payload.ErrorClass,
	}
	for k, v := range payload.Metadata {
		if _, exists := custom[k]; !exists {
			custom[k] = v
		}
	}

	return map[string]any{
		"routing_key":  c.routingKey,
		"event_action": "trigger",
		"dedup_key":    dedupKey(payload),
		"payload": map[string]any{
			"summary":        summary(payload),
			"severity":       severity,
			"source":         c.source,
			"component":      c.component,
			"timestamp":      occurredAt.Format(time.RFC3339),
			"custom_details": custom,
		},
	}
}

// dedupKey groups retries of the same item into a single incident.
func dedupKey(payload notify.FailurePayload) string {
	parts := []string{payload.Generator, payload.RunID}
	if payload.Seq > 0 {
		parts = append(parts, strconv.Itoa(payload.Seq))
	}
	return strings.Trim(strings.Join(parts, ":"), ":")
}

func summary(payload notify.FailurePayload) string {
	gen := fallbackString(payload.Generator, "unknown")
	if payload.Stage == notify.StageRun {
		return fmt.Sprintf("gifgen run %s (%s) aborted", fallbackString(payload.RunID, "unknown"), gen)
	}
	return fmt.Sprintf("gifgen %s failed for item %d of run %s (%s)",
		fallbackString(payload.Stage, "item"), payload.Seq, fallbackString(payload.RunID, "unknown"), gen)
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
