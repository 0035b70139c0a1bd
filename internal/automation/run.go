// Package automation implements the scheduled pipeline runs: tool discovery,
// metrics snapshots, and catalog refresh. Each run is audited by an
// automation_logs row; per-item failures are isolated and never abort a run.
package automation

import (
	"context"
	"time"

	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
)

// runOutcome accumulates the aggregate result of one run.
type runOutcome struct {
	counts  map[string]int
	errors  []string
	details map[string][]string
}

func newRunOutcome() *runOutcome {
	return &runOutcome{counts: make(map[string]int)}
}

func (o *runOutcome) count(key string) { o.counts[key]++ }

func (o *runOutcome) addError(msg string) { o.errors = append(o.errors, msg) }

func (o *runOutcome) addDetail(key string, values []string) {
	if o.details == nil {
		o.details = make(map[string][]string)
	}
	o.details[key] = values
}

// status derives the run status: failed when nothing succeeded and something
// errored, partial when some items errored, success otherwise.
func (o *runOutcome) status(succeededKey string) string {
	switch {
	case len(o.errors) == 0:
		return domain.RunStatusSuccess
	case o.counts[succeededKey] == 0:
		return domain.RunStatusFailed
	default:
		return domain.RunStatusPartial
	}
}

// audited wraps a run body in an automation log row. The body's error is
// reserved for run-level failures (per-item errors go into the outcome).
func audited(
	ctx context.Context,
	logs database.AutomationLogRepositoryInterface,
	log logger.Logger,
	runType, succeededKey string,
	body func(ctx context.Context, outcome *runOutcome) error,
) (*domain.RunMetadata, error) {
	run, err := logs.Start(ctx, runType)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	outcome := newRunOutcome()
	bodyErr := body(ctx, outcome)

	metadata := domain.RunMetadata{
		Counts:     outcome.counts,
		DurationMs: time.Since(started).Milliseconds(),
		Errors:     outcome.errors,
		Details:    outcome.details,
	}

	status := outcome.status(succeededKey)
	if bodyErr != nil {
		status = domain.RunStatusFailed
		metadata.Errors = append(metadata.Errors, bodyErr.Error())
	}

	if finishErr := logs.Finish(ctx, run.ID, status, metadata); finishErr != nil {
		log.Error("failed to finalize automation log",
			logger.String("run_id", run.ID),
			logger.String("type", runType),
			logger.Error(finishErr),
		)
	}

	log.Info("automation run finished",
		logger.String("type", runType),
		logger.String("status", status),
		logger.Int64("duration_ms", metadata.DurationMs),
		logger.Int("errors", len(metadata.Errors)),
	)

	return &metadata, bodyErr
}
