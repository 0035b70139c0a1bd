package telemetry

import (
	"context"

	"github.com/jonesrussell/toolscout/internal/domain"
)

// Runner mirrors the automation run surface so instrumentation does not
// depend on the scheduler package.
type Runner interface {
	Run(ctx context.Context) (*domain.RunMetadata, error)
}

type instrumentedRunner struct {
	runType string
	metrics *Metrics
	inner   Runner
}

// InstrumentRunner wraps a runner so every run feeds the automation
// counters.
func (m *Metrics) InstrumentRunner(runType string, inner Runner) Runner {
	return &instrumentedRunner{runType: runType, metrics: m, inner: inner}
}

func (r *instrumentedRunner) Run(ctx context.Context) (*domain.RunMetadata, error) {
	metadata, err := r.inner.Run(ctx)

	status := domain.RunStatusSuccess
	switch {
	case err != nil:
		status = domain.RunStatusFailed
	case metadata != nil && len(metadata.Errors) > 0:
		status = domain.RunStatusPartial
	}
	r.metrics.AutomationRuns.WithLabelValues(r.runType, status).Inc()

	if metadata != nil && r.runType == domain.RunTypeDiscovery {
		r.metrics.ToolsDiscovered.Add(float64(metadata.Counts["created"]))
	}
	return metadata, err
}
