// Package retry provides context-aware retries with exponential backoff
// for the best-effort external calls (egress start, call-record writes).
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Policy controls how Do spaces its attempts.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Factor      float64
	Jitter      bool
}

// DefaultPolicy suits short platform API calls: three attempts within
// roughly half a second total under no jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Factor:      2.0,
		Jitter:      true,
	}
}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is
// cancelled. The attempt number passed to fn starts at 1.
func Do(ctx context.Context, p Policy, fn func(attempt int) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}

	return fmt.Errorf("retry gave up after %d attempts: %w", p.MaxAttempts, lastErr)
}

// delay computes the backoff before the next attempt, with up to 20%
// additive jitter so concurrent sessions do not retry in lockstep.
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Factor)
		if d >= p.MaxDelay {
			d = p.MaxDelay
			break
		}
	}
	if p.Jitter {
		d += time.Duration(rand.Int63n(int64(d)/5 + 1))
	}
	return d
}
