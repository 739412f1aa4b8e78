// Package circuitbreaker guards outbound collaborator calls so a failing
// service degrades a tool answer instead of stalling a live call.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without invoking the wrapped call while the
// breaker is rejecting traffic.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker's admission mode.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Config tunes the breaker thresholds.
type Config struct {
	FailureThreshold   int           // consecutive failures that open the breaker
	SuccessThreshold   int           // half-open successes needed to close again
	OpenFor            time.Duration // how long to reject before probing
	CountersResetAfter time.Duration // idle time after which failures are forgotten
}

// DefaultConfig matches the behavior expected of short HTTP tool calls.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:   5,
		SuccessThreshold:   2,
		OpenFor:            30 * time.Second,
		CountersResetAfter: 60 * time.Second,
	}
}

// CircuitBreaker tracks consecutive failures of one collaborator.
type CircuitBreaker struct {
	cfg Config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	touchedAt time.Time
}

// New creates a closed breaker.
func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, touchedAt: time.Now()}
}

// Execute runs fn unless the breaker is open. Context cancellation is
// reported as-is and does not count as a collaborator failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !cb.admit() {
		return ErrOpen
	}

	err := fn()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	cb.observe(err == nil)
	return err
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	if now.Sub(cb.touchedAt) > cb.cfg.CountersResetAfter {
		cb.failures = 0
	}
	cb.touchedAt = now

	if cb.state == StateOpen {
		if now.Sub(cb.openedAt) < cb.cfg.OpenFor {
			return false
		}
		cb.state = StateHalfOpen
		cb.successes = 0
	}
	return true
}

func (cb *CircuitBreaker) observe(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !ok {
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.state = StateOpen
			cb.openedAt = time.Now()
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = StateClosed
		}
	}
}

// GetState reports the current admission mode.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats is a point-in-time snapshot for metrics reporting.
type Stats struct {
	State     State
	Failures  int
	Successes int
}

// GetStats returns a snapshot of the breaker counters.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Stats{State: cb.state, Failures: cb.failures, Successes: cb.successes}
}
