// Package scheduler triggers the automation runs on cron schedules.
// Each run type is guarded so a slow run is skipped rather than overlapped.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
)

// Runner executes one automation run.
type Runner interface {
	Run(ctx context.Context) (*domain.RunMetadata, error)
}

// Scheduler drives registered runners from cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger logger.Logger

	mu      sync.Mutex
	running map[string]*atomic.Bool
}

// New creates an empty scheduler.
func New(log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		logger:  log,
		running: make(map[string]*atomic.Bool),
	}
}

// Register schedules a runner under the given cron spec. A tick that fires
// while the previous run of the same type is still going is skipped.
func (s *Scheduler) Register(runType, spec string, runner Runner) error {
	s.mu.Lock()
	guard, ok := s.running[runType]
	if !ok {
		guard = &atomic.Bool{}
		s.running[runType] = guard
	}
	s.mu.Unlock()

	_, err := s.cron.AddFunc(spec, func() {
		if !guard.CompareAndSwap(false, true) {
			s.logger.Warn("skipping overlapping run",
				logger.String("type", runType))
			return
		}
		defer guard.Store(false)

		s.logger.Info("scheduled run starting",
			logger.String("type", runType), logger.String("schedule", spec))
		if _, err := runner.Run(context.Background()); err != nil {
			s.logger.Error("scheduled run failed",
				logger.String("type", runType), logger.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("registered schedule",
		logger.String("type", runType), logger.String("schedule", spec))
	return nil
}

// Start begins firing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for in-flight runs started by cron.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
