package nudge

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brk3/wellnest/internal/logger"
)

const runTimeout = time.Minute

// Scheduler runs the nudge check on a cron schedule. Overlapping runs are
// skipped.
type Scheduler struct {
	cron     *cron.Cron
	querier  Querier
	notifier Notifier
}

func NewScheduler(q Querier, n Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		querier:  q,
		notifier: n,
	}
}

func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("add nudge job %q: %w", spec, err)
	}
	s.cron.Start()
	logger.Info("Nudge scheduler started", "schedule", spec)
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	logger.Info("Nudge scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	sent, err := Run(ctx, s.querier, s.notifier)
	if err != nil {
		logger.Error("Nudge run failed", "error", err)
		return
	}
	logger.Debug("Nudge run completed", "sent", sent)
}
