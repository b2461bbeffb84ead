package model

import "time"

// ItemStatus is the terminal state of one iteration within a job run.
type ItemStatus string

const (
	ItemDelivered        ItemStatus = "delivered"
	ItemDeliveryFailed   ItemStatus = "delivery_failed"
	ItemGenerationFailed ItemStatus = "generation_failed"
)

// ItemOutcome records what happened to one iteration of a run.
type ItemOutcome struct {
	Seq           int           `json:"seq"`
	Status        ItemStatus    `json:"status"`
	Path          string        `json:"path,omitempty"`
	Attempts      int           `json:"attempts"`
	FailureReason FailureReason `json:"failure_reason,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// RunSummary describes one job run. It is returned by the job runner and
// optionally cached and persisted for operators.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	Generator  string        `json:"generator"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Requested  int           `json:"requested"`
	Items      []ItemOutcome `json:"items"`
	Aborted    bool          `json:"aborted"`
	AbortError string        `json:"abort_error,omitempty"`
}

// Duration is the wall-clock length of the run.
func (s RunSummary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Count returns how many items ended in the given status.
func (s RunSummary) Count(status ItemStatus) int {
	n := 0
	for _, it := range s.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}
