package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
	ticks []uint64
	mu    sync.Mutex
}

func (r *recorder) fn(name string, err error) Func {
	return func(_ context.Context, tick uint64) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.calls = append(r.calls, name)
		r.ticks = append(r.ticks, tick)

		return err
	}
}

func TestTriggerRunsCallbacksInOrder(t *testing.T) {
	var r recorder

	s := New(time.Minute)
	s.Register("fetch", r.fn("fetch", nil))
	s.Register("compute", r.fn("compute", nil))

	assert.Equal(t, uint64(1), s.Trigger(context.Background()))
	assert.Equal(t, uint64(2), s.Trigger(context.Background()))

	assert.Equal(t, []string{"fetch", "compute", "fetch", "compute"}, r.calls)
	assert.Equal(t, []uint64{1, 1, 2, 2}, r.ticks)
	assert.Equal(t, uint64(2), s.Ticks())
}

func TestTriggerIsolatesFailures(t *testing.T) {
	var r recorder

	s := New(time.Minute)
	s.Register("failing", r.fn("failing", errors.New("backend unavailable")))
	s.Register("panicking", func(context.Context, uint64) error {
		panic("boom")
	})
	s.Register("compute", r.fn("compute", nil))

	s.Trigger(context.Background())
	s.Trigger(context.Background())

	assert.Equal(t, []string{"failing", "compute", "failing", "compute"}, r.calls)
}

func TestSafeRunRecoversPanic(t *testing.T) {
	err := safeRun(context.Background(), func(context.Context, uint64) error {
		panic("boom")
	}, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, errPanic)
	assert.Contains(t, err.Error(), "boom")
}

func TestTriggerAfterCancel(t *testing.T) {
	var called atomic.Bool

	s := New(time.Minute)
	s.Register("compute", func(context.Context, uint64) error {
		called.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, uint64(0), s.Trigger(ctx))
	assert.False(t, called.Load())
}

func TestStartTicksPeriodically(t *testing.T) {
	var count atomic.Int64

	s := New(50 * time.Millisecond)
	s.Register("compute", func(context.Context, uint64) error {
		count.Add(1)
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	assert.True(t, s.Running())
	assert.Error(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return count.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopHaltsTicking(t *testing.T) {
	var count atomic.Int64

	s := New(20 * time.Millisecond)
	s.Register("compute", func(context.Context, uint64) error {
		count.Add(1)
		return nil
	})

	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return count.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.False(t, s.Running())

	time.Sleep(30 * time.Millisecond)
	stopped := count.Load()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, stopped, count.Load())
}

func TestContextCancelStops(t *testing.T) {
	s := New(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()

	assert.Eventually(t, func() bool {
		return !s.Running()
	}, time.Second, 5*time.Millisecond)
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(0).Interval())
}
