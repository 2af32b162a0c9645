package backfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/boxscore"
)

type fakeWarmer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	block chan struct{}
}

func (f *fakeWarmer) GetBoxScore(ctx context.Context, gameID string) (*boxscore.BoxScore, error) {
	f.mu.Lock()
	f.calls = append(f.calls, gameID)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.fail[gameID] {
		return nil, errors.New("upstream unavailable")
	}
	return &boxscore.BoxScore{GameID: gameID, EventsProcessed: 3}, nil
}

func (f *fakeWarmer) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func waitForJob(t *testing.T, svc *Service, jobID string) *Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := svc.GetJob(jobID)
		if ok && job.Status.Done() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", jobID)
	return nil
}

func startService(t *testing.T, warmer Warmer) *Service {
	t.Helper()
	svc := NewService(warmer, quietLogger())
	svc.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		svc.Shutdown(ctx)
	})
	return svc
}

func TestService_WarmsGames(t *testing.T) {
	warmer := &fakeWarmer{}
	svc := startService(t, warmer)

	job, err := svc.Enqueue(Request{GameIDs: []string{" 1 ", "2", "1", ""}})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.JobID == "" || job.Status != JobStatusQueued || job.ProgressTotal != 2 {
		t.Errorf("queued job = %+v", job)
	}

	done := waitForJob(t, svc, job.JobID)
	if done.Status != JobStatusCompleted {
		t.Errorf("status = %s (%s)", done.Status, done.LastError)
	}
	if done.ProgressCurrent != 2 || done.StartedAt == nil || done.CompletedAt == nil {
		t.Errorf("job = %+v", done)
	}

	calls := warmer.called()
	if len(calls) != 2 || calls[0] != "1" || calls[1] != "2" {
		t.Errorf("calls = %v, want [1 2]", calls)
	}

	if events := svc.GetEvents(job.JobID); len(events) != 3 {
		t.Errorf("events = %d, want 3 (queued + 2 games)", len(events))
	}
}

func TestService_PartialFailure(t *testing.T) {
	warmer := &fakeWarmer{fail: map[string]bool{"2": true}}
	svc := startService(t, warmer)

	job, err := svc.Enqueue(Request{GameIDs: []string{"1", "2", "3"}})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	done := waitForJob(t, svc, job.JobID)
	if done.Status != JobStatusFailed {
		t.Errorf("status = %s, want failed", done.Status)
	}
	if len(done.FailedGameIDs) != 1 || done.FailedGameIDs[0] != "2" {
		t.Errorf("FailedGameIDs = %v", done.FailedGameIDs)
	}
	if done.ProgressCurrent != 3 {
		t.Errorf("ProgressCurrent = %d, want 3", done.ProgressCurrent)
	}
	if len(warmer.called()) != 3 {
		t.Errorf("remaining games should still be warmed, calls = %v", warmer.called())
	}
}

func TestService_DryRun(t *testing.T) {
	warmer := &fakeWarmer{}
	svc := startService(t, warmer)

	job, err := svc.Enqueue(Request{GameIDs: []string{"1"}, DryRun: true})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if done := waitForJob(t, svc, job.JobID); done.Status != JobStatusCompleted {
		t.Errorf("status = %s", done.Status)
	}
	if len(warmer.called()) != 0 {
		t.Errorf("dry run should not warm, calls = %v", warmer.called())
	}
}

func tooManyIDs() []string {
	ids := make([]string, 0, MaxGamesPerJob+1)
	for i := 0; i <= MaxGamesPerJob; i++ {
		ids = append(ids, fmt.Sprint(i))
	}
	return ids
}

func TestService_EnqueueValidation(t *testing.T) {
	svc := NewService(&fakeWarmer{}, quietLogger())

	tests := []struct {
		name string
		ids  []string
	}{
		{"nil", nil},
		{"blank", []string{" ", ""}},
		{"too many", tooManyIDs()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Enqueue(Request{GameIDs: tt.ids}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestService_StatusAndShutdown(t *testing.T) {
	warmer := &fakeWarmer{block: make(chan struct{})}
	svc := NewService(warmer, quietLogger())
	svc.Start()

	first, _ := svc.Enqueue(Request{GameIDs: []string{"1"}})
	second, _ := svc.Enqueue(Request{GameIDs: []string{"2"}})

	deadline := time.Now().Add(2 * time.Second)
	for svc.GetStatus().ActiveJob == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	status := svc.GetStatus()
	if status.ActiveJob == nil || status.ActiveJob.JobID != first.JobID {
		t.Fatalf("active job = %+v", status.ActiveJob)
	}
	if status.Queued != 1 || len(status.History) != 2 || status.History[0].JobID != second.JobID {
		t.Errorf("status = %+v", status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if job, _ := svc.GetJob(first.JobID); job.Status != JobStatusCancelled {
		t.Errorf("running job status = %s, want cancelled", job.Status)
	}
	if job, _ := svc.GetJob(second.JobID); job.Status != JobStatusCancelled {
		t.Errorf("queued job status = %s, want cancelled", job.Status)
	}
	if _, err := svc.Enqueue(Request{GameIDs: []string{"3"}}); err == nil {
		t.Error("Enqueue after Shutdown should fail")
	}
}
