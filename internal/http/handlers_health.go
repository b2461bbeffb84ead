package httpx

import (
	"io"
	"net/http"
	"time"
)

type healthBody struct {
	Status    string `json:"status"`
	Generator string `json:"generator,omitempty"`
	Uptime    string `json:"uptime"`
}

// health is the liveness probe. It never touches the stores, so a Redis
// outage does not get the daemon restarted mid-run.
func (h *statusHandlers) health(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthBody{
		Status:    "ok",
		Generator: h.job.Generator,
		Uptime:    h.now().Sub(h.started).Truncate(time.Second).String(),
	})
}

// ready reports whether the status cache answers.
func (h *statusHandlers) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.status.Health(r.Context()); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "not_ready", Err: err})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok"}`+"\n")
}
