package config

import (
	"strings"
	"time"
)

const defaultObservabilityName = "gifgen"

// Notification severities, lowest first.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// ObservabilityConfig groups the StatsD and failure notification settings.
type ObservabilityConfig struct {
	Metrics       ObservabilityMetricsConfig
	Notifications ObservabilityNotificationsConfig
}

// Sanitize applies guardrails to both sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Notifications.Sanitize()
}

// ObservabilityMetricsConfig controls StatsD emission for attempts, retries,
// deliveries and runs.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"gifgen"`
}

// Sanitize disables metrics when no address is left after trimming.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled reports whether a StatsD client should be built.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityNotificationsConfig controls who hears about failed
// artifacts and aborted runs.
type ObservabilityNotificationsConfig struct {
	Enabled    bool          `env:"OBSERVABILITY_NOTIFICATIONS_ENABLED"     envDefault:"false"`
	Timeout    time.Duration `env:"OBSERVABILITY_NOTIFICATIONS_TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"OBSERVABILITY_NOTIFICATIONS_RETRY_LIMIT" envDefault:"3"`
	// MinSeverity drops per-artifact warnings when set to critical, so only
	// aborted runs page anyone.
	MinSeverity string                      `env:"OBSERVABILITY_NOTIFICATIONS_MIN_SEVERITY" envDefault:"warning"`
	Slack       SlackNotificationConfig     `envPrefix:"OBSERVABILITY_NOTIFICATIONS_SLACK_"`
	PagerDuty   PagerDutyNotificationConfig `envPrefix:"OBSERVABILITY_NOTIFICATIONS_PAGERDUTY_"`
}

// Sanitize fills defaults and turns off sinks that lack their secret.
func (c *ObservabilityNotificationsConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	c.RetryLimit = max(c.RetryLimit, 0)

	switch strings.ToLower(strings.TrimSpace(c.MinSeverity)) {
	case SeverityCritical:
		c.MinSeverity = SeverityCritical
	default:
		c.MinSeverity = SeverityWarning
	}

	c.Slack.sanitize()
	c.PagerDuty.sanitize()

	if !c.Enabled {
		c.Slack.Enabled = false
		c.PagerDuty.Enabled = false
		return
	}
	c.Slack.Enabled = c.Slack.Enabled && c.Slack.WebhookURL != ""
	c.PagerDuty.Enabled = c.PagerDuty.Enabled && c.PagerDuty.RoutingKey != ""
}

// SlackNotificationConfig controls the Slack webhook sink.
type SlackNotificationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	WebhookURL string `env:"WEBHOOK_URL"`
	Channel    string `env:"CHANNEL"`
	Username   string `env:"USERNAME"    envDefault:"gifgen"`
	// StatusURL links messages to the daemon's /status endpoint.
	StatusURL string `env:"STATUS_URL"`
}

func (c *SlackNotificationConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	c.StatusURL = strings.TrimSpace(c.StatusURL)
	if c.Username = strings.TrimSpace(c.Username); c.Username == "" {
		c.Username = defaultObservabilityName
	}
}

// PagerDutyNotificationConfig controls the PagerDuty Events API v2 sink.
type PagerDutyNotificationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	RoutingKey string `env:"ROUTING_KEY"`
	Source     string `env:"SOURCE"      envDefault:"gifgen"`
	Component  string `env:"COMPONENT"   envDefault:"gifgen"`
}

func (c *PagerDutyNotificationConfig) sanitize() {
	c.RoutingKey = strings.TrimSpace(c.RoutingKey)
	if c.Source = strings.TrimSpace(c.Source); c.Source == "" {
		c.Source = defaultObservabilityName
	}
	if c.Component = strings.TrimSpace(c.Component); c.Component == "" {
		c.Component = defaultObservabilityName
	}
}
