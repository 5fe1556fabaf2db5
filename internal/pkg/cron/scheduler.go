package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSkipped lets a job report that it had nothing to do this tick, for
// instance because another instance holds its lock.
var ErrSkipped = errors.New("job skipped")

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Observer receives one call per job run; outcome is ok, error or skipped.
type Observer interface {
	ObserveCron(job, outcome string)
}

// Scheduler runs each job on its own ticker until Stop.
type Scheduler struct {
	jobs     []Job
	observer Observer
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewScheduler creates a scheduler. observer may be nil.
func NewScheduler(observer Observer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:     make([]Job, 0),
		observer: observer,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(s.ctx, job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(s.ctx, job)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	err := job.Fn(ctx)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrSkipped):
		outcome = "skipped"
		slog.Debug("Cron job skipped", "name", job.Name)
	case err != nil:
		outcome = "error"
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	default:
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}

	if s.observer != nil {
		s.observer.ObserveCron(job.Name, outcome)
	}
}

// RunOnce runs all jobs once, synchronously.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}
