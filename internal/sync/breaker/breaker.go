// Package breaker implements recovery from the ledger "circuit breaker open" failure mode.
//
// Each detected occurrence is counted. Once the count reaches the threshold, and the
// cooldown since the last reset attempt has elapsed, the ledger network connection is reset.
package breaker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

const (
	// DefaultThreshold is the number of occurrences that triggers a reset attempt
	DefaultThreshold = 5

	// DefaultCooldown is the minimum time between two reset attempts
	DefaultCooldown = 300 * time.Second
)

// Resetter resets the connection to the ledger network
type Resetter interface {
	ResetNetwork(ctx context.Context) (bool, error)
}

// State is a copy of the recovery counters
type State struct {
	FailureCount     int        `json:"failureCount"`
	LastResetAttempt *time.Time `json:"lastResetAttempt,omitempty"`
}

// Option configures a Recovery
type Option func(*Recovery)

// WithThreshold sets the occurrence count that triggers a reset attempt
func WithThreshold(n int) Option {
	return func(r *Recovery) {
		if n > 0 {
			r.threshold = n
		}
	}
}

// WithCooldown sets the minimum time between reset attempts
func WithCooldown(d time.Duration) Option {
	return func(r *Recovery) {
		if d > 0 {
			r.cooldown = d
		}
	}
}

// WithClock sets the clock used for cooldown checks
func WithClock(clk clock.PassiveClock) Option {
	return func(r *Recovery) {
		if clk != nil {
			r.clock = clk
		}
	}
}

// WithResetObserver registers a callback invoked after every reset attempt with its result
func WithResetObserver(fn func(ctx context.Context, success bool)) Option {
	return func(r *Recovery) {
		r.observer = fn
	}
}

// Recovery owns the circuit-breaker counters. It is safe for concurrent use. The lock is
// not held while the network is reset; occurrences seen during a reset are only counted.
type Recovery struct {
	resetter  Resetter
	threshold int
	cooldown  time.Duration
	clock     clock.PassiveClock
	observer  func(ctx context.Context, success bool)

	mu               sync.Mutex
	failureCount     int
	lastResetAttempt *time.Time
	resetting        bool
}

// New creates a Recovery that resets the network through resetter
func New(resetter Resetter, opts ...Option) *Recovery {
	r := &Recovery{
		resetter:  resetter,
		threshold: DefaultThreshold,
		cooldown:  DefaultCooldown,
		clock:     clock.RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnDetected handles one detected circuit-breaker occurrence and reports whether the
// network was reset. The occurrence is always counted; only a successful reset clears it.
func (r *Recovery) OnDetected(ctx context.Context) bool {
	r.mu.Lock()
	r.failureCount++
	if r.failureCount < r.threshold {
		slog.Debug("Circuit breaker occurrence recorded",
			"failure_count", r.failureCount,
			"threshold", r.threshold)
		r.mu.Unlock()
		return false
	}
	if r.resetting {
		slog.Debug("Circuit breaker reset already in progress", "failure_count", r.failureCount)
		r.mu.Unlock()
		return false
	}

	now := r.clock.Now()
	if r.lastResetAttempt != nil {
		if elapsed := now.Sub(*r.lastResetAttempt); elapsed <= r.cooldown {
			slog.Warn("Circuit breaker reset in cooldown",
				"failure_count", r.failureCount,
				"remaining", r.cooldown-elapsed)
			r.mu.Unlock()
			return false
		}
	}
	r.resetting = true
	slog.Info("Resetting ledger network after repeated circuit breaker errors",
		"failure_count", r.failureCount)
	r.mu.Unlock()

	ok, err := r.resetter.ResetNetwork(ctx)
	if err != nil {
		slog.Error("Ledger network reset failed", "error", err)
		ok = false
	} else if !ok {
		slog.Warn("Ledger network reset was not successful")
	}
	if r.observer != nil {
		r.observer(ctx, ok)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetting = false
	if !ok {
		return false
	}

	r.failureCount = 0
	r.lastResetAttempt = &now
	slog.Info("Ledger network reset completed")
	return true
}

// State returns a copy of the counters
func (r *Recovery) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := State{FailureCount: r.failureCount}
	if r.lastResetAttempt != nil {
		t := *r.lastResetAttempt
		s.LastResetAttempt = &t
	}
	return s
}

// Reset clears the counters
func (r *Recovery) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failureCount = 0
	r.lastResetAttempt = nil
}
