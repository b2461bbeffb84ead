package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"ok":true}`, string(body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if calls.Add(1) < 2 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := PostJSON(context.Background(), srv.Client(), srv.URL, []byte(`{"ok":true}`), 2, "slack")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPostJSON_ReturnsLastError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad hook", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := PostJSON(context.Background(), srv.Client(), srv.URL, []byte(`{}`), 0, "slack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack 400 Bad Request: bad hook")
}

func TestPostJSON_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := PostJSON(ctx, srv.Client(), srv.URL, []byte(`{}`), 5, "pagerduty")
	require.Error(t, err)
}
