package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PostJSON posts body to url, retrying up to retries extra times with a
// linear backoff. label prefixes error messages ("slack", "pagerduty").
func PostJSON(ctx context.Context, hc *http.Client, url string, body []byte, retries int, label string) error {
	attempts := max(retries, 0) + 1
	var lastErr error
	for attempt := range attempts {
		err := postOnce(ctx, hc, url, body, label)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}
		delay := time.Duration(attempt+1) * 200 * time.Millisecond
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func postOnce(ctx context.Context, hc *http.Client, url string, body []byte, label string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", label, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", label, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		closeErr := resp.Body.Close()
		if readErr != nil {
			return errors.Join(fmt.Errorf("read %s error response: %w", label, readErr), closeErr)
		}
		return fmt.Errorf("%s %s: %s", label, resp.Status, strings.TrimSpace(string(respBody)))
	}

	_, drainErr := io.Copy(io.Discard, resp.Body)
	closeErr := resp.Body.Close()
	if drainErr != nil {
		return errors.Join(fmt.Errorf("drain %s response body: %w", label, drainErr), closeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close response body: %w", closeErr)
	}
	return nil
}
