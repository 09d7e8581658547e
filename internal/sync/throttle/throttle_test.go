package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestState_Allow(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		record  bool
		elapsed time.Duration
		force   bool
		want    bool
	}{
		{name: "no entry", want: true},
		{name: "within window", record: true, elapsed: 10 * time.Second, want: false},
		{name: "just before window", record: true, elapsed: DefaultWindow - time.Millisecond, want: false},
		{name: "exactly at window", record: true, elapsed: DefaultWindow, want: true},
		{name: "after window", record: true, elapsed: time.Minute, want: true},
		{name: "forced within window", record: true, elapsed: time.Second, force: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clk := clocktesting.NewFakePassiveClock(start)
			s := New[string](0, clk)
			if tt.record {
				s.Record("sprints", start)
			}
			clk.SetTime(start.Add(tt.elapsed))
			assert.Equal(t, tt.want, s.Allow("sprints", tt.force))
		})
	}
}

func TestState_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	clk := clocktesting.NewFakePassiveClock(time.Now())
	s := New[string](time.Minute, clk)
	s.Record("sprints", clk.Now())

	assert.False(t, s.Allow("sprints", false))
	assert.True(t, s.Allow("tarefas", false))
	assert.Equal(t, time.Minute, s.Window())
}

func TestState_RecordsStartTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clocktesting.NewFakePassiveClock(start)
	s := New[string](0, clk)

	// a reconciliation that started at `start` and finished 20s later
	clk.SetTime(start.Add(20 * time.Second))
	s.Record("backlog", start)

	last, ok := s.Last("backlog")
	require.True(t, ok)
	assert.Equal(t, start, last)

	clk.SetTime(start.Add(DefaultWindow))
	assert.True(t, s.Allow("backlog", false))
}

func TestState_SnapshotAndReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := New[int](0, clocktesting.NewFakePassiveClock(now))
	s.Record(1, now)
	s.Record(2, now)

	snap := s.Snapshot()
	assert.Len(t, snap, 2)

	snap[3] = now
	_, ok := s.Last(3)
	assert.False(t, ok, "snapshot must be a copy")

	s.Reset()
	assert.Empty(t, s.Snapshot())
	assert.True(t, s.Allow(1, false))
}

func TestState_RecordIfCurrent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := New[string](0, clocktesting.NewFakePassiveClock(now))

	gen := s.Generation()
	assert.True(t, s.RecordIfCurrent("sprints", now, gen))

	stale := s.Generation()
	s.Reset()
	assert.NotEqual(t, stale, s.Generation())
	assert.False(t, s.RecordIfCurrent("tasks", now, stale), "entries started before a reset are dropped")
	_, ok := s.Last("tasks")
	assert.False(t, ok)
	assert.True(t, s.Allow("tasks", false))
}
