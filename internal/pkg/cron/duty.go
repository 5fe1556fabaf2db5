package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/cache"
)

const autoCloseLockKey = "cron:duty:auto_close"

// DutyCloser closes duties left open past the auto-close window.
type DutyCloser interface {
	AutoCloseStale(ctx context.Context) (int64, error)
}

// Locker runs fn while holding a named lock across instances.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// ClosedCounter is told how many duties each run closed.
type ClosedCounter interface {
	AddAutoClosed(n int64)
}

type DutyJobs struct {
	duties   DutyCloser
	locker   Locker
	counter  ClosedCounter
	interval time.Duration
}

// NewDutyJobs wires the stale duty job. locker and counter may be nil.
func NewDutyJobs(duties DutyCloser, locker Locker, counter ClosedCounter, interval time.Duration) *DutyJobs {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &DutyJobs{
		duties:   duties,
		locker:   locker,
		counter:  counter,
		interval: interval,
	}
}

func (j *DutyJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_duties", j.interval, j.AutoCloseStaleDuties)
}

// AutoCloseStaleDuties runs the close under a lock so that only one replica
// closes duties per tick.
func (j *DutyJobs) AutoCloseStaleDuties(ctx context.Context) error {
	run := func(ctx context.Context) error {
		closed, err := j.duties.AutoCloseStale(ctx)
		if err != nil {
			return fmt.Errorf("auto close stale duties: %w", err)
		}
		if j.counter != nil {
			j.counter.AddAutoClosed(closed)
		}
		if closed > 0 {
			slog.Info("Cron: auto-closed stale duties", "count", closed)
		}
		return nil
	}

	if j.locker == nil {
		return run(ctx)
	}

	// the lock outlives a single run but never a full interval
	err := j.locker.WithLock(ctx, autoCloseLockKey, j.interval/2, run)
	if errors.Is(err, cache.ErrLockNotObtained) {
		return ErrSkipped
	}
	return err
}
