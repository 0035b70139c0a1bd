package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
)

type countingRunner struct {
	calls atomic.Int32
	block chan struct{}
}

func (r *countingRunner) Run(context.Context) (*domain.RunMetadata, error) {
	r.calls.Add(1)
	if r.block != nil {
		<-r.block
	}
	return &domain.RunMetadata{}, nil
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(logger.NewNop())
	err := s.Register(domain.RunTypeDiscovery, "not a cron spec", &countingRunner{})
	assert.Error(t, err)
}

func TestSchedulerFiresRegisteredRunner(t *testing.T) {
	s := New(logger.NewNop())
	runner := &countingRunner{}
	require.NoError(t, s.Register(domain.RunTypeMetrics, "@every 10ms", runner))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerSkipsOverlappingRuns(t *testing.T) {
	s := New(logger.NewNop())
	runner := &countingRunner{block: make(chan struct{})}
	require.NoError(t, s.Register(domain.RunTypeRefresh, "@every 10ms", runner))

	s.Start()

	// Give the schedule several ticks while the first run is still blocked.
	assert.Eventually(t, func() bool {
		return runner.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), runner.calls.Load(), "ticks during a run are skipped")

	close(runner.block)
	s.Stop()
}
