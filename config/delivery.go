package config

import (
	"strings"
	"time"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// Delivery channels.
const (
	ChannelTelegram = "telegram"
	ChannelGDrive   = "gdrive"
)

// Renderer backends.
const (
	RendererExec = "exec"
	RendererHTTP = "http"
)

// DeliveryConfig selects the delivery channel and its limits.
type DeliveryConfig struct {
	Channel string `env:"DELIVERY_CHANNEL" envDefault:"telegram"`
	// CredentialsFile is the JSON credential store ({"token": ..., "id": ...}).
	CredentialsFile string        `env:"GIFGEN_INFOFILE"        envDefault:"info.json"`
	Timeout         time.Duration `env:"DELIVERY_TIMEOUT"       envDefault:"100s"`
	RateInterval    time.Duration `env:"DELIVERY_RATE_INTERVAL" envDefault:"1s"`

	TelegramBaseURL string `env:"TELEGRAM_BASE_URL" envDefault:"https://api.telegram.org"`

	// Google Drive OAuth client. The refresh token comes from the credential store.
	GDriveClientID     string `env:"GDRIVE_CLIENT_ID"`
	GDriveClientSecret string `env:"GDRIVE_CLIENT_SECRET"`
}

// Sanitize normalises the channel name and clamps negative durations.
func (c *DeliveryConfig) Sanitize() {
	c.Channel = strings.ToLower(strings.TrimSpace(c.Channel))
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
	c.TelegramBaseURL = strings.TrimRight(strings.TrimSpace(c.TelegramBaseURL), "/")
	c.GDriveClientID = strings.TrimSpace(c.GDriveClientID)
	c.GDriveClientSecret = strings.TrimSpace(c.GDriveClientSecret)
	if c.RateInterval < 0 {
		c.RateInterval = 0
	}
}

// Validate checks the channel selection and its required settings.
func (c DeliveryConfig) Validate() error {
	if c.CredentialsFile == "" {
		return apperrors.Configuration("GIFGEN_INFOFILE", "credential store path is required")
	}
	if c.Timeout < 0 {
		return apperrors.Configuration("DELIVERY_TIMEOUT", "delivery timeout must be >= 0")
	}
	switch c.Channel {
	case ChannelTelegram:
		return nil
	case ChannelGDrive:
		if c.GDriveClientID == "" || c.GDriveClientSecret == "" {
			return apperrors.Configuration("GDRIVE_CLIENT_ID", "gdrive delivery needs GDRIVE_CLIENT_ID and GDRIVE_CLIENT_SECRET")
		}
		return nil
	default:
		return apperrors.Configurationf("DELIVERY_CHANNEL", "unknown delivery channel %q (want telegram or gdrive)", c.Channel)
	}
}

// RendererConfig selects the generator backend.
type RendererConfig struct {
	Backend string `env:"RENDERER_BACKEND" envDefault:"exec"`

	Command   string        `env:"RENDERER_COMMAND"    envDefault:"python3"`
	Args      []string      `env:"RENDERER_ARGS"       envDefault:"gif_generators.py"`
	Dir       string        `env:"RENDERER_DIR"`
	WaitDelay time.Duration `env:"RENDERER_WAIT_DELAY" envDefault:"5s"`

	BaseURL    string `env:"RENDERER_BASE_URL"`
	ResultPath string `env:"RENDERER_RESULT_PATH" envDefault:"path"`
}

// Sanitize trims values and drops empty args.
func (c *RendererConfig) Sanitize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Command = strings.TrimSpace(c.Command)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.ResultPath = strings.TrimSpace(c.ResultPath)
	args := c.Args[:0]
	for _, a := range c.Args {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	c.Args = args
}

// Validate checks the backend has what it needs.
func (c RendererConfig) Validate() error {
	switch c.Backend {
	case RendererExec:
		if c.Command == "" {
			return apperrors.Configuration("RENDERER_COMMAND", "exec renderer needs a command")
		}
	case RendererHTTP:
		if c.BaseURL == "" {
			return apperrors.Configuration("RENDERER_BASE_URL", "http renderer needs a base url")
		}
	default:
		return apperrors.Configurationf("RENDERER_BACKEND", "unknown renderer backend %q (want exec or http)", c.Backend)
	}
	return nil
}
