package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

type fakeResetter struct {
	calls  int
	result bool
	err    error
}

func (f *fakeResetter) ResetNetwork(context.Context) (bool, error) {
	f.calls++
	return f.result, f.err
}

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestRecovery_BelowThreshold(t *testing.T) {
	t.Parallel()

	res := &fakeResetter{result: true}
	r := New(res, WithClock(clocktesting.NewFakePassiveClock(t0)))

	for i := 1; i < DefaultThreshold; i++ {
		assert.False(t, r.OnDetected(context.Background()))
		assert.Equal(t, i, r.State().FailureCount, "count increases by one per occurrence")
	}
	assert.Zero(t, res.calls)
	assert.Nil(t, r.State().LastResetAttempt)
}

func TestRecovery_ResetAtFifthOccurrence(t *testing.T) {
	t.Parallel()

	clk := clocktesting.NewFakePassiveClock(t0)
	res := &fakeResetter{result: true}
	r := New(res, WithClock(clk))

	results := make([]bool, 0, 5)
	for range 5 {
		results = append(results, r.OnDetected(context.Background()))
		clk.SetTime(clk.Now().Add(10 * time.Second))
	}

	assert.Equal(t, []bool{false, false, false, false, true}, results)
	assert.Equal(t, 1, res.calls, "reset attempted exactly once")

	state := r.State()
	assert.Equal(t, 0, state.FailureCount)
	require.NotNil(t, state.LastResetAttempt)
	assert.Equal(t, t0.Add(40*time.Second), *state.LastResetAttempt)
}

func TestRecovery_Cooldown(t *testing.T) {
	t.Parallel()

	clk := clocktesting.NewFakePassiveClock(t0)
	res := &fakeResetter{result: true}
	r := New(res, WithClock(clk))

	for range 5 {
		r.OnDetected(context.Background())
	}
	require.Equal(t, 1, res.calls)

	// five more occurrences inside the cooldown: counted, no reset
	clk.SetTime(t0.Add(DefaultCooldown))
	for i := range 5 {
		assert.False(t, r.OnDetected(context.Background()))
		assert.Equal(t, i+1, r.State().FailureCount)
	}
	assert.Equal(t, 1, res.calls, "elapsed equal to cooldown does not allow a reset")

	clk.SetTime(t0.Add(DefaultCooldown + time.Millisecond))
	assert.True(t, r.OnDetected(context.Background()))
	assert.Equal(t, 2, res.calls)
	assert.Equal(t, 0, r.State().FailureCount)
}

func TestRecovery_FailedResetKeepsState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resetter *fakeResetter
	}{
		{name: "reset returns false", resetter: &fakeResetter{result: false}},
		{name: "reset returns error", resetter: &fakeResetter{err: errors.New("sidecar unreachable")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := New(tt.resetter, WithClock(clocktesting.NewFakePassiveClock(t0)))

			for range 5 {
				assert.False(t, r.OnDetected(context.Background()))
			}
			assert.Equal(t, 1, tt.resetter.calls)
			assert.Equal(t, 5, r.State().FailureCount, "the increment persists")
			assert.Nil(t, r.State().LastResetAttempt)

			// no cooldown recorded, so the next occurrence retries immediately
			assert.False(t, r.OnDetected(context.Background()))
			assert.Equal(t, 2, tt.resetter.calls)
			assert.Equal(t, 6, r.State().FailureCount)
		})
	}
}

func TestRecovery_OptionsAndObserver(t *testing.T) {
	t.Parallel()

	var observed []bool
	res := &fakeResetter{result: true}
	r := New(res,
		WithThreshold(2),
		WithCooldown(time.Minute),
		WithClock(clocktesting.NewFakePassiveClock(t0)),
		WithResetObserver(func(_ context.Context, ok bool) {
			observed = append(observed, ok)
		}),
	)

	assert.False(t, r.OnDetected(context.Background()))
	assert.True(t, r.OnDetected(context.Background()))
	assert.Equal(t, []bool{true}, observed)
}

func TestRecovery_Reset(t *testing.T) {
	t.Parallel()

	r := New(&fakeResetter{result: true}, WithClock(clocktesting.NewFakePassiveClock(t0)))
	for range 5 {
		r.OnDetected(context.Background())
	}
	r.OnDetected(context.Background())
	require.NotNil(t, r.State().LastResetAttempt)

	r.Reset()
	assert.Equal(t, State{}, r.State())
}

type blockingResetter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingResetter) ResetNetwork(context.Context) (bool, error) {
	close(b.started)
	<-b.release
	return true, nil
}

func TestRecovery_ResetDoesNotBlockState(t *testing.T) {
	t.Parallel()

	res := &blockingResetter{started: make(chan struct{}), release: make(chan struct{})}
	r := New(res, WithThreshold(1), WithClock(clocktesting.NewFakePassiveClock(t0)))

	done := make(chan bool)
	go func() { done <- r.OnDetected(context.Background()) }()

	select {
	case <-res.started:
	case <-time.After(2 * time.Second):
		t.Fatal("network reset never started")
	}

	states := make(chan State)
	go func() { states <- r.State() }()
	select {
	case s := <-states:
		assert.Equal(t, 1, s.FailureCount)
	case <-time.After(time.Second):
		t.Fatal("State blocked while a network reset was in progress")
	}

	assert.False(t, r.OnDetected(context.Background()), "a second reset must not start while one is running")
	assert.Equal(t, 2, r.State().FailureCount)

	close(res.release)
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("network reset never finished")
	}
	assert.Equal(t, State{FailureCount: 0, LastResetAttempt: &t0}, r.State())
}
