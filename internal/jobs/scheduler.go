package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type entry struct {
	job      Job
	interval time.Duration
}

// Scheduler runs each job on its own fixed interval. Invocations of one job
// are sequential, so a slow run delays the next tick instead of overlapping it.
type Scheduler struct {
	logger     *zap.Logger
	entries    []entry
	runOnStart bool
}

// NewScheduler creates an empty Scheduler. With runOnStart every job also
// runs once as soon as Run is called.
func NewScheduler(logger *zap.Logger, runOnStart bool) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger, runOnStart: runOnStart}
}

// Add registers job to run every interval
func (s *Scheduler) Add(job Job, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval %s for job %s", interval, job.Name())
	}
	s.entries = append(s.entries, entry{job: job, interval: interval})
	return nil
}

// Run blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, e := range s.entries {
		g.Go(func() error {
			s.loop(ctx, e)
			return nil
		})
	}

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.entries)))
	err := g.Wait()
	s.logger.Info("Scheduler stopped")
	return err
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	logger := s.logger.With(zap.String("job", e.job.Name()), zap.Duration("interval", e.interval))

	if s.runOnStart {
		s.invoke(ctx, logger, e.job)
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.invoke(ctx, logger, e.job)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, logger *zap.Logger, job Job) {
	start := time.Now()
	report := job.Run(ctx)

	fields := []zap.Field{
		zap.Bool("success", report.Success),
		zap.String("summary", report.Summary),
		zap.Duration("duration", time.Since(start)),
	}
	if report.Success {
		logger.Info("Job finished", fields...)
	} else {
		logger.Warn("Job failed", fields...)
	}
}
