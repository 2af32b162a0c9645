package backfill

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxEventsPerJob = 200

	// DefaultRetention is how many finished jobs a Repository keeps.
	DefaultRetention = 100
)

// Repository keeps warm jobs and their event logs in memory. Queued and
// running jobs are always kept; only the newest retain finished jobs are.
type Repository struct {
	mu     sync.Mutex
	jobs   []*Job
	byID   map[string]*Job
	events map[string][]Event
	retain int
	now    func() time.Time
}

// NewRepository constructs a Repository keeping up to retain finished jobs.
// A non-positive retain uses DefaultRetention.
func NewRepository(retain int) *Repository {
	if retain <= 0 {
		retain = DefaultRetention
	}
	return &Repository{
		byID:   make(map[string]*Job),
		events: make(map[string][]Event),
		retain: retain,
		now:    time.Now,
	}
}

// prune drops the oldest finished jobs beyond the retention cap. Callers
// hold r.mu.
func (r *Repository) prune() {
	finished := 0
	for _, job := range r.jobs {
		if job.Status.Done() {
			finished++
		}
	}
	if finished <= r.retain {
		return
	}

	drop := finished - r.retain
	kept := r.jobs[:0]
	for _, job := range r.jobs {
		if drop > 0 && job.Status.Done() {
			delete(r.byID, job.JobID)
			delete(r.events, job.JobID)
			drop--
			continue
		}
		kept = append(kept, job)
	}
	clear(r.jobs[len(kept):])
	r.jobs = kept
}

// CreateJob assigns an id and timestamps and stores the job.
func (r *Repository) CreateJob(job *Job) *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := job.Copy()
	stored.JobID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.jobs = append(r.jobs, stored)
	r.byID[stored.JobID] = stored
	return stored.Copy()
}

// Get returns a job by id.
func (r *Repository) Get(jobID string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.byID[jobID]
	return job.Copy(), ok
}

// UpdateStatus updates status, message and optional error.
func (r *Repository) UpdateStatus(jobID string, status JobStatus, message string, lastErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.byID[jobID]
	if !ok {
		return fmt.Errorf("update job status: unknown job %s", jobID)
	}

	now := r.now()
	job.Status = status
	job.StatusMessage = message
	job.UpdatedAt = now
	if lastErr != nil {
		job.LastError = lastErr.Error()
	}
	if status.Done() {
		job.CompletedAt = &now
		r.prune()
	}
	return nil
}

// UpdateProgress updates the progress counters and message.
func (r *Repository) UpdateProgress(jobID string, current, total int, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.byID[jobID]
	if !ok {
		return fmt.Errorf("update job progress: unknown job %s", jobID)
	}

	job.ProgressCurrent = current
	job.ProgressTotal = total
	job.StatusMessage = message
	job.UpdatedAt = r.now()
	return nil
}

// RecordFailure notes a game that could not be warmed.
func (r *Repository) RecordFailure(jobID, gameID string, cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.byID[jobID]
	if !ok {
		return fmt.Errorf("record failure: unknown job %s", jobID)
	}

	job.FailedGameIDs = append(job.FailedGameIDs, gameID)
	job.LastError = cause.Error()
	job.UpdatedAt = r.now()
	return nil
}

// AppendEvent stores a log entry for a job. Only the most recent entries
// are kept.
func (r *Repository) AppendEvent(jobID string, eventType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := append(r.events[jobID], Event{Type: eventType, Message: message, At: r.now()})
	if len(events) > maxEventsPerJob {
		events = events[len(events)-maxEventsPerJob:]
	}
	r.events[jobID] = events
}

// Events returns the event log of a job.
func (r *Repository) Events(jobID string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events[jobID]...)
}

// MarkNextJobRunning claims the oldest queued job, or returns nil.
func (r *Repository) MarkNextJobRunning() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		if job.Status != JobStatusQueued {
			continue
		}
		now := r.now()
		job.Status = JobStatusRunning
		job.StatusMessage = "Running"
		job.StartedAt = &now
		job.UpdatedAt = now
		return job.Copy()
	}
	return nil
}

// CancelQueued marks every queued job cancelled.
func (r *Repository) CancelQueued(message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	now := r.now()
	for _, job := range r.jobs {
		if job.Status == JobStatusQueued {
			job.Status = JobStatusCancelled
			job.StatusMessage = message
			job.UpdatedAt = now
			job.CompletedAt = &now
			count++
		}
	}
	r.prune()
	return count
}

// GetActiveJob returns the running job, if any.
func (r *Repository) GetActiveJob() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		if job.Status == JobStatusRunning {
			return job.Copy()
		}
	}
	return nil
}

// CountQueued returns the number of jobs waiting to run.
func (r *Repository) CountQueued() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, job := range r.jobs {
		if job.Status == JobStatusQueued {
			count++
		}
	}
	return count
}

// ListRecentJobs returns up to limit jobs, newest first.
func (r *Repository) ListRecentJobs(limit int) []*Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs := make([]*Job, 0, limit)
	for i := len(r.jobs) - 1; i >= 0 && len(jobs) < limit; i-- {
		jobs = append(jobs, r.jobs[i].Copy())
	}
	return jobs
}
