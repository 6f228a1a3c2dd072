package syncer

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the timer side of the sync loop. Ticks that land while a
// previous run is still in flight are skipped rather than queued, and a panic
// inside a run is recovered so the loop survives it.
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
	}
}

// Schedule registers fn to run every interval.
func (s *Scheduler) Schedule(interval time.Duration, fn func()) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}

	s.logger.Debug("Scheduled sync job", zap.String("spec", spec))
	return nil
}

// Start begins dispatching ticks.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts dispatch and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
