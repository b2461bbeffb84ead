// Package httpx serves the read-only status endpoint: liveness, the last run
// summary and, when run history is enabled, recent runs.
package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// StatusReader is the subset of service.StatusService the router needs.
type StatusReader interface {
	LastRun(ctx context.Context) (*model.RunSummary, error)
	Recent(ctx context.Context, limit int) ([]model.RunSummary, error)
	Run(ctx context.Context, runID string) (*model.RunSummary, error)
	Health(ctx context.Context) error
}

// JobInfo describes the configured job for /status.
type JobInfo struct {
	Generator string        `json:"generator"`
	Interval  time.Duration `json:"-"`
	Count     int           `json:"count"`
	Channel   string        `json:"channel"`
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Status StatusReader // Required
	Job    JobInfo
	Logger *slog.Logger
	Now    func() time.Time // Optional: defaults to time.Now
}

const maxRunsLimit = 200

// NewRouter builds the status router with logging and panic recovery.
func NewRouter(svc RouterServices) http.Handler {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := svc.Now
	if now == nil {
		now = time.Now
	}
	h := &statusHandlers{status: svc.Status, job: svc.Job, now: now, started: now()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, Recover(logger), Logging(logger))

	r.Get("/healthz", h.health)
	r.Head("/healthz", h.health)
	r.Get("/readyz", h.ready)
	r.Get("/status", h.lastRun)
	r.Get("/runs", h.recent)
	r.Get("/runs/{id}", h.run)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteAppError(w, apperrors.NotFound("no such endpoint"))
	})
	return r
}

type statusHandlers struct {
	status  StatusReader
	job     JobInfo
	now     func() time.Time
	started time.Time
}

type statusResponse struct {
	Job      JobInfo           `json:"job"`
	Interval string            `json:"interval"`
	LastRun  *model.RunSummary `json:"last_run"`
}

func (h *statusHandlers) lastRun(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Job: h.job, Interval: h.job.Interval.String()}
	last, err := h.status.LastRun(r.Context())
	switch {
	case apperrors.IsNotFound(err):
		// No run yet: still report the job.
	case err != nil:
		WriteAppError(w, err)
		return
	default:
		resp.LastRun = last
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *statusHandlers) recent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRunsLimit {
			WriteAppError(w, apperrors.ValidationField("limit", "limit must be between 1 and 200"))
			return
		}
		limit = n
	}
	runs, err := h.status.Recent(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if runs == nil {
		runs = []model.RunSummary{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *statusHandlers) run(w http.ResponseWriter, r *http.Request) {
	run, err := h.status.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, run)
}
