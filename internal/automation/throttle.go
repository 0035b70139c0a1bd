package automation

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle paces external calls inside a run. It is injected so tests can
// swap in a no-op and runs stay deterministic.
type Throttle interface {
	Wait(ctx context.Context) error
}

type rateThrottle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a throttle allowing one call per interval, with an
// initial token so the first call never waits.
func NewThrottle(interval time.Duration) Throttle {
	if interval <= 0 {
		return NopThrottle{}
	}
	return &rateThrottle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (t *rateThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// NopThrottle never waits.
type NopThrottle struct{}

// Wait implements Throttle.
func (NopThrottle) Wait(context.Context) error { return nil }
