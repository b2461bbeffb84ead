package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	router := NewRouter(RouterServices{
		Status: &fakeStatus{},
		Job:    JobInfo{Generator: "neural_ode"},
		Now:    func() time.Time { return now },
	})
	now = start.Add(90*time.Minute + 500*time.Millisecond)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, healthBody{Status: "ok", Generator: "neural_ode", Uptime: "1h30m0s"}, body)
}

func TestHealthHEAD(t *testing.T) {
	rec := serve(t, &fakeStatus{}, http.MethodHead, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Zero(t, rec.Body.Len())
}

func TestHealthIgnoresStoreOutage(t *testing.T) {
	rec := serve(t, &fakeStatus{healthErr: assert.AnError}, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
}
