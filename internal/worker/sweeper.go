package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"supportdesk.app/engine/common/logger"
)

// Job is one periodic sweep. Run returns how many rows it changed.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Sweeper runs each job on its own ticker until stopped. A failing or
// panicking job is logged and retried on its next tick.
type Sweeper struct {
	jobs []Job

	stopCh    chan struct{}
	stoppedCh chan struct{}
	stopOnce  sync.Once
}

func NewSweeper(jobs ...Job) *Sweeper {
	return &Sweeper{
		jobs:      jobs,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts every job and blocks until Stop is called or ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "engine.worker.sweeper",
	})

	defer close(s.stoppedCh)

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, job)
		}()
	}

	slog.InfoContext(ctx, "sweeper started", "jobs", len(s.jobs))
	wg.Wait()
}

// Stop signals every job loop to exit and waits for Run to return.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.stoppedCh
}

func (s *Sweeper) loop(ctx context.Context, job Job) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Operation: logger.Ptr(job.Name)})

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "sweep scheduled", "interval", job.Interval)

	for {
		s.runOnce(ctx, job)

		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "sweep stopping")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context, job Job) {
	sc := logger.StartSpan(ctx, "worker."+job.Name)
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	n, err := runSafe(ctx, job)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "sweep cycle error", "error", err)
		return
	}
	sc.SetInt("sweep.changed", n)
	if n > 0 {
		slog.InfoContext(ctx, "sweep cycle completed",
			"changed", n,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func runSafe(ctx context.Context, job Job) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in sweep", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Run(ctx)
}
