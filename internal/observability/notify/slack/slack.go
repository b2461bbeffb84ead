package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rajatvd/GifGenerator/internal/observability/notify"
)

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// StatusURL, when set, is linked from every message (usually the /status endpoint).
	StatusURL string
}

// Client delivers failure notifications to a Slack webhook.
type Client struct {
	webhookURL string
	channel    string
	username   string
	retryLimit int
	statusURL  string
	client     *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient builds a Slack webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
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
		webhookURL: webhookURL,
		channel:    strings.TrimSpace(cfg.Channel),
		username:   fallbackString(strings.TrimSpace(cfg.Username), "gifgen"),
		retryLimit: max(cfg.RetryLimit, 0),
		statusURL:  strings.TrimSpace(cfg.StatusURL),
		client:     hc,
	}, nil
}

// SendFailure posts a formatted message to Slack.
func (c *Client) SendFailure(ctx context.Context, payload notify.FailurePayload) error {
	body, err := json.Marshal(c.formatMessage(payload))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}
	return notify.PostJSON(ctx, c.client, c.webhookURL, body, c.retryLimit, "slack webhook")
}

func (c *Client) formatMessage(payload notify.FailurePayload) map[string]any {
	timestamp := payload.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	text := strings.Builder{}
	writeHeader(&text, payload)
	for _, f := range detailFields(payload) {
		appendField(&text, f.label, f.value)
	}
	appendMetadata(&text, payload.Metadata)
	if c.statusURL != "" {
		appendField(&text, "Status", "<"+c.statusURL+"|last run>")
	}
	text.WriteString("• Timestamp: ")
	text.WriteString(timestamp.UTC().Format(time.RFC3339))

	msg := map[string]any{
		"text":     text.String(),
		"username": c.username,
	}
	if c.channel != "" {
		msg["channel"] = c.channel
	}
	return msg
}

func writeHeader(text *strings.Builder, payload notify.FailurePayload) {
	if payload.Stage == notify.StageRun {
		text.WriteString("*Generation run aborted*")
	} else {
		text.WriteString("*Artifact failure*")
	}
	if payload.Generator != "" {
		text.WriteString(" (")
		text.WriteString(escapeText(payload.Generator))
		text.WriteByte(')')
	}
	if payload.RunID != "" {
		text.WriteString(" `")
		text.WriteString(payload.RunID)
		text.WriteByte('`')
	}
	text.WriteByte('\n')
}

type field struct {
	label string
	value string
}

func detailFields(payload notify.FailurePayload) []field {
	var seq, attempts string
	if payload.Seq > 0 {
		seq = strconv.Itoa(payload.Seq)
	}
	if payload.Attempts > 0 {
		attempts = strconv.Itoa(payload.Attempts)
	}
	return []field{
		{"Severity", fallbackString(payload.Severity, notify.SeverityCritical)},
		{"Stage", payload.Stage},
		{"Item", seq},
		{"Attempts", attempts},
		{"Reason", payload.Reason},
		{"Error class", payload.ErrorClass},
		{"Error", escapeText(payload.Error)},
	}
}

func appendField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}

func appendMetadata(text *strings.Builder, metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}
	text.WriteString("• Metadata:\n")
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		text.WriteString("    • ")
		text.WriteString(k)
		text.WriteString(": ")
		text.WriteString(escapeText(metadata[k]))
		text.WriteByte('\n')
	}
}

func escapeText(value string) string {
	if value == "" {
		return ""
	}
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(value)
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
