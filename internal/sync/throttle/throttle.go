// Package throttle tracks, per key, the start time of the last successful reconciliation
// and decides whether a non-forced reconciliation may run again.
package throttle

import (
	"maps"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// DefaultWindow is the minimum interval between non-forced reconciliations of the same key
const DefaultWindow = 30 * time.Second

// State holds last-success timestamps keyed by K.
// It is safe for concurrent use.
type State[K comparable] struct {
	mu     sync.RWMutex
	last   map[K]time.Time
	window time.Duration
	clock  clock.PassiveClock

	// gen advances on Reset
	gen uint64
}

// New creates an empty throttle state. A non-positive window selects DefaultWindow and a nil
// clock selects the real clock.
func New[K comparable](window time.Duration, clk clock.PassiveClock) *State[K] {
	if window <= 0 {
		window = DefaultWindow
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &State[K]{
		last:   make(map[K]time.Time),
		window: window,
		clock:  clk,
	}
}

// Now returns the current time of the state's clock
func (s *State[K]) Now() time.Time {
	return s.clock.Now()
}

// Window returns the configured throttle window
func (s *State[K]) Window() time.Duration {
	return s.window
}

// Allow reports whether key may be reconciled now: always when forced, otherwise only when
// no success is recorded or the window has fully elapsed since it.
func (s *State[K]) Allow(key K, force bool) bool {
	if force {
		return true
	}
	s.mu.RLock()
	last, ok := s.last[key]
	s.mu.RUnlock()
	if !ok {
		return true
	}
	return s.clock.Since(last) >= s.window
}

// Record stores the start time of a successful reconciliation of key
func (s *State[K]) Record(key K, startedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[key] = startedAt
}

// Generation identifies the current session. It changes on every Reset.
func (s *State[K]) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// RecordIfCurrent records a success only when no Reset happened since gen was read,
// and reports whether it did
func (s *State[K]) RecordIfCurrent(key K, startedAt time.Time, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.last[key] = startedAt
	return true
}

// Last returns the recorded time for key
func (s *State[K]) Last(key K) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.last[key]
	return t, ok
}

// Snapshot returns a copy of every recorded entry
func (s *State[K]) Snapshot() map[K]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.last)
}

// Reset forgets every recorded entry
func (s *State[K]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.last)
	s.gen++
}
