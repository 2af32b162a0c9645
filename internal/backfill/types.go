package backfill

import (
	"time"
)

// JobStatus represents the lifecycle state for a warm job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// Job is a request to pre-build box scores for a list of games.
type Job struct {
	JobID           string     `json:"job_id"`
	GameIDs         []string   `json:"game_ids"`
	DryRun          bool       `json:"dry_run,omitempty"`
	Status          JobStatus  `json:"status"`
	StatusMessage   string     `json:"status_message,omitempty"`
	ProgressCurrent int        `json:"progress_current"`
	ProgressTotal   int        `json:"progress_total"`
	FailedGameIDs   []string   `json:"failed_game_ids,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Copy returns a copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	cpy.GameIDs = append([]string(nil), j.GameIDs...)
	cpy.FailedGameIDs = append([]string(nil), j.FailedGameIDs...)
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	GameIDs []string
	DryRun  bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnGameProcessed(gameID string, eventsProcessed int)
	OnGameFailed(gameID string, err error)
	OnProgress(message string, current int, total int)
	OnJobComplete()
}

// Event is a log entry recorded against a job.
type Event struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	Queued    int    `json:"queued"`
	History   []*Job `json:"recent_jobs"`
}
