package domain

import "time"

// RunStatus is the state of an analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun records one batch execution over a fiscal year.
type AnalysisRun struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Year       int        `json:"year"`
	Status     RunStatus  `json:"status"`
	Processed  int        `json:"processed"`
	Skipped    int        `json:"skipped"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
