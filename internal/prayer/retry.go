package prayer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/adthand/adthand/pkg/logger"
)

// RetryPolicy decides whether and when a failed fetch is attempted again.
type RetryPolicy interface {
	// Next returns the delay to wait after the given number of failed
	// attempts, or false to stop retrying.
	Next(attempts int) (time.Duration, bool)
}

// FixedDelay waits the same Delay between attempts.
// MaxAttempts of 0 retries forever.
type FixedDelay struct {
	Delay       time.Duration
	MaxAttempts int
}

func (p FixedDelay) Next(attempts int) (time.Duration, bool) {
	if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
		return 0, false
	}
	return p.Delay, true
}

// ExponentialBackoff grows the delay by Factor per attempt, capped at Max,
// with optional random jitter. MaxAttempts of 0 retries forever.
type ExponentialBackoff struct {
	Base        time.Duration
	Max         time.Duration
	Factor      float64
	Jitter      float64
	MaxAttempts int
}

func (p ExponentialBackoff) Next(attempts int) (time.Duration, bool) {
	if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
		return 0, false
	}
	if attempts < 1 {
		attempts = 1
	}
	factor := p.Factor
	if factor < 1 {
		factor = 2
	}
	delay := float64(p.Base) * math.Pow(factor, float64(attempts-1))
	if p.Jitter > 0 {
		delay *= 1 + p.Jitter*(2*rand.Float64()-1)
	}
	if p.Max > 0 && delay > float64(p.Max) {
		delay = float64(p.Max)
	}
	if delay < 0 {
		delay = float64(p.Base)
	}
	return time.Duration(delay), true
}

// Retry runs op until it succeeds, the policy gives up, or ctx is done.
// Every failed attempt is logged as a warning.
func Retry(ctx context.Context, p RetryPolicy, l logger.Logger, what string, op func(context.Context) error) error {
	for attempts := 1; ; attempts++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delay, ok := p.Next(attempts)
		if !ok {
			return fmt.Errorf("%s: giving up after %d attempts: %w", what, attempts, err)
		}
		l.Warning("%s failed (attempt %d): %v; retrying in %s", what, attempts, err, delay)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
