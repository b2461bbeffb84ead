package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatvd/GifGenerator/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#gifs",
		Username:   "bot",
		StatusURL:  "http://gifgen.local/status",
	})
	require.NoError(t, err)

	msg := client.formatMessage(notify.FailurePayload{
		RunID:      "run-1",
		Generator:  "neural_ode",
		Stage:      notify.StageGeneration,
		Seq:        2,
		Attempts:   3,
		Reason:     "timeout_exhausted",
		Error:      "attempt 3 <timed out>",
		ErrorClass: "timeout",
		Severity:   notify.SeverityWarning,
		Metadata:   map[string]string{"output_dir": "gifs/neural_ode_gifs"},
	})

	assert.Equal(t, "bot", msg["username"])
	assert.Equal(t, "#gifs", msg["channel"])

	text, ok := msg["text"].(string)
	require.True(t, ok)
	for _, want := range []string{
		"Artifact failure", "neural_ode", "run-1", "Item: 2", "Attempts: 3",
		"timeout_exhausted", "&lt;timed out&gt;", "warning", "output_dir",
		"<http://gifgen.local/status|last run>",
	} {
		assert.Contains(t, text, want)
	}
}

func TestFormatMessageRunAbort(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test"})
	require.NoError(t, err)

	msg := client.formatMessage(notify.FailurePayload{Stage: notify.StageRun, Error: "delivery unavailable"})
	text, _ := msg["text"].(string)
	assert.True(t, strings.HasPrefix(text, "*Generation run aborted*"))
	assert.Equal(t, "gifgen", msg["username"])
	assert.NotContains(t, msg, "channel")
	assert.NotContains(t, text, "Item:")
}

func TestSendFailurePostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	err = client.SendFailure(context.Background(), notify.FailurePayload{RunID: "abc"})
	require.NoError(t, err)
	assert.Contains(t, got["text"], "abc")
}
