package backfill

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// MaxGamesPerJob caps the size of a single warm request.
const MaxGamesPerJob = 500

// Request represents a warm invocation request.
type Request struct {
	GameIDs []string
	DryRun  bool
}

// normalize trims, drops blanks and de-duplicates game ids, keeping order.
func (r Request) normalize() ([]string, error) {
	seen := make(map[string]bool, len(r.GameIDs))
	ids := make([]string, 0, len(r.GameIDs))
	for _, id := range r.GameIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("warm job requires at least one game id")
	}
	if len(ids) > MaxGamesPerJob {
		return nil, fmt.Errorf("warm job accepts at most %d game ids, got %d", MaxGamesPerJob, len(ids))
	}
	return ids, nil
}

// Service queues warm jobs and runs them on a single background worker.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(warmer Warmer, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[warm] ", log.LstdFlags)
	}

	historyLimit := 10
	return &Service{
		repo:         NewRepository(historyLimit * 10),
		runner:       NewRunner(warmer),
		historyLimit: historyLimit,
		wake:         make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker, cancels queued jobs and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if n := s.repo.CancelQueued("Cancelled at shutdown"); n > 0 {
			s.logger.Printf("cancelled %d queued jobs", n)
		}
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(req Request) (*Job, error) {
	if s.ctx.Err() != nil {
		return nil, fmt.Errorf("warm service is shutting down")
	}

	ids, err := req.normalize()
	if err != nil {
		return nil, err
	}

	stored := s.repo.CreateJob(&Job{
		GameIDs:       ids,
		DryRun:        req.DryRun,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		ProgressTotal: len(ids),
	})
	s.repo.AppendEvent(stored.JobID, "queued", "Job queued")
	s.logger.Printf("queued job %s (%d games)", stored.JobID, len(ids))

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return stored, nil
}

// GetJob returns a job by id.
func (s *Service) GetJob(jobID string) (*Job, bool) {
	return s.repo.Get(jobID)
}

// GetEvents returns the event log of a job.
func (s *Service) GetEvents(jobID string) []Event {
	return s.repo.Events(jobID)
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus() *StatusSummary {
	return &StatusSummary{
		ActiveJob: s.repo.GetActiveJob(),
		Queued:    s.repo.CountQueued(),
		History:   s.repo.ListRecentJobs(s.historyLimit),
	}
}

func (s *Service) worker() {
	defer s.wg.Done()

	for {
		if s.ctx.Err() != nil {
			return
		}

		job := s.repo.MarkNextJobRunning()
		if job == nil {
			select {
			case <-s.ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		s.executeJob(job)
	}
}

func (s *Service) executeJob(job *Job) {
	spec := JobSpec{GameIDs: job.GameIDs, DryRun: job.DryRun}
	reporter := &jobReporter{
		repo:   s.repo,
		logger: s.logger,
		jobID:  job.JobID,
		total:  len(spec.GameIDs),
	}

	s.logger.Printf("running job %s", job.JobID)

	err := s.runner.Run(s.ctx, spec, reporter)
	switch {
	case err == nil:
		_ = s.repo.UpdateStatus(job.JobID, JobStatusCompleted, "Job completed", nil)
		s.logger.Printf("✓ job %s completed", job.JobID)
	case s.ctx.Err() != nil:
		_ = s.repo.UpdateStatus(job.JobID, JobStatusCancelled, "Job cancelled", err)
		s.logger.Printf("job %s cancelled", job.JobID)
	default:
		_ = s.repo.UpdateStatus(job.JobID, JobStatusFailed, "Job failed", err)
		s.logger.Printf("⚠️  job %s failed: %v", job.JobID, err)
	}
}

type jobReporter struct {
	repo   *Repository
	logger *log.Logger
	jobID  string
	total  int
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	if r.total == 0 {
		r.total = len(spec.GameIDs)
	}
	_ = r.repo.UpdateProgress(r.jobID, 0, r.total, "Job starting")
}

func (r *jobReporter) OnGameProcessed(gameID string, eventsProcessed int) {
	r.repo.AppendEvent(r.jobID, "game", fmt.Sprintf("Game %s warmed (%d events)", gameID, eventsProcessed))
}

func (r *jobReporter) OnGameFailed(gameID string, err error) {
	r.logger.Printf("⚠️  game %s: %v", gameID, err)
	_ = r.repo.RecordFailure(r.jobID, gameID, err)
	r.repo.AppendEvent(r.jobID, "error", fmt.Sprintf("Game %s failed: %v", gameID, err))
}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	_ = r.repo.UpdateProgress(r.jobID, current, valueOr(total, r.total), message)
}

func (r *jobReporter) OnJobComplete() {
	_ = r.repo.UpdateProgress(r.jobID, r.total, r.total, "Job complete")
}

func valueOr(val, fallback int) int {
	if val > 0 {
		return val
	}
	return fallback
}
