// Package telegram delivers artifacts to a Telegram chat through the Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Options configures the Telegram channel.
type Options struct {
	BaseURL string       // Optional: defaults to DefaultBaseURL
	Client  *http.Client // Optional: defaults to a client without timeout; sends are bounded by ctx
	// MinInterval is the minimum spacing between uploads. Zero disables pacing.
	MinInterval time.Duration
	Logger      *slog.Logger
}

// Channel implements core.DeliveryChannel for Telegram.
type Channel struct {
	baseURL     string
	client      *http.Client
	minInterval time.Duration
	logger      *slog.Logger
}

var _ core.DeliveryChannel = (*Channel)(nil)

// New constructs a Telegram channel.
func New(opts Options) *Channel {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := opts.Client
	if hc == nil {
		hc = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		baseURL:     baseURL,
		client:      hc,
		minInterval: opts.MinInterval,
		logger:      logger.With("component", "telegram"),
	}
}

// Name implements core.DeliveryChannel.
func (c *Channel) Name() string { return "telegram" }

// Connect verifies the bot token with getMe and returns a session bound to dest.
func (c *Channel) Connect(ctx context.Context, dest model.Destination) (core.DeliverySession, error) {
	if dest.Token == "" || dest.ID == "" {
		return nil, errors.New("telegram destination requires token and chat id")
	}

	var me struct {
		Username string `json:"username"`
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL(dest.Token, "getMe"), nil)
	if err != nil {
		return nil, fmt.Errorf("build getMe request: %w", err)
	}
	if err := c.do(req, &me); err != nil {
		return nil, fmt.Errorf("getMe: %w", err)
	}
	c.logger.InfoContext(ctx, "telegram bot connected", "bot", me.Username, "destination", dest)

	limit := rate.Inf
	if c.minInterval > 0 {
		limit = rate.Every(c.minInterval)
	}
	return &session{
		channel: c,
		dest:    dest,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

func (c *Channel) methodURL(token, method string) string {
	return c.baseURL + "/bot" + token + "/" + method
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// APIError is a failure reported by the Bot API.
type APIError struct {
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

func (c *Channel) do(req *http.Request, result any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		// Drop the URL from the error; it carries the bot token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("telegram %s request failed: %w", strings.ToLower(urlErr.Op), urlErr.Err)
		}
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var env apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil {
		return fmt.Errorf("decode telegram response (http %d): %w", resp.StatusCode, err)
	}
	if !env.OK {
		code := env.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{
			Code:        code,
			Description: env.Description,
			RetryAfter:  time.Duration(env.Parameters.RetryAfter) * time.Second,
		}
	}
	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("decode telegram result: %w", err)
		}
	}
	return nil
}

type session struct {
	channel *Channel
	dest    model.Destination
	limiter *rate.Limiter
}

// uploadMethod picks the Bot API method and form field for a file.
func uploadMethod(path string) (method, field string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".webm":
		return "sendVideo", "video"
	case ".gif":
		return "sendAnimation", "animation"
	default:
		return "sendDocument", "document"
	}
}

func (s *session) Send(ctx context.Context, req model.DeliveryRequest) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	dest := s.dest
	if req.Destination.ID != "" {
		dest.ID = req.Destination.ID
	}
	method, field := uploadMethod(req.Path)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, dest.ID, req.Caption, field, f))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.channel.methodURL(dest.Token, method), pr)
	if err != nil {
		_ = pr.Close()
		return fmt.Errorf("build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	if err := s.channel.do(httpReq, nil); err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("%s %s: %w", method, filepath.Base(req.Path), err)
	}
	return nil
}

func writeForm(mw *multipart.Writer, chatID, caption, field string, f *os.File) error {
	if err := mw.WriteField("chat_id", chatID); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile(field, filepath.Base(f.Name()))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	return mw.Close()
}

func (s *session) Close() error { return nil }
