// Package refresh drives the periodic recomputation of the dashboard.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 10 * time.Second

// Func is one recompute callback. tick increases by one on every run.
type Func func(ctx context.Context, tick uint64) error

type job struct {
	name string
	fn   Func
}

// Scheduler runs its registered callbacks in order on every tick. Ticks
// never overlap: a Trigger issued while the periodic tick runs waits for it.
type Scheduler struct {
	cron     *gocron.Scheduler
	cancel   context.CancelFunc
	jobs     []job
	interval time.Duration
	tick     atomic.Uint64
	run      sync.Mutex
	mu       sync.Mutex
}

// New returns a stopped scheduler ticking every interval.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Scheduler{interval: interval}
}

// Register appends fn to the callbacks of every tick.
func (s *Scheduler) Register(name string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, fn: fn})
}

// Interval reports the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Ticks reports how many ticks have run.
func (s *Scheduler) Ticks() uint64 {
	return s.tick.Load()
}

// Start begins periodic ticking until Stop is called or ctx is done. The
// first periodic tick fires one interval after Start; call Trigger for an
// immediate one.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return errAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()

	_, err := cron.Every(s.interval).WaitForSchedule().Do(func() {
		s.Trigger(ctx)
	})
	if err != nil {
		cancel()
		return errSchedule.Wrap(err)
	}

	cron.StartAsync()

	s.cron = cron
	s.cancel = cancel

	go func() {
		<-ctx.Done()
		s.stop(cron)
	}()

	slog.InfoContext(ctx, "refresh scheduler started",
		slog.Duration("interval", s.interval),
		slog.Int("callbacks", len(s.jobs)),
	)

	return nil
}

// Trigger runs one tick now and returns its number. Failures are logged and
// do not stop the remaining callbacks.
func (s *Scheduler) Trigger(ctx context.Context) uint64 {
	s.run.Lock()
	defer s.run.Unlock()

	if ctx.Err() != nil {
		return s.tick.Load()
	}

	s.mu.Lock()
	jobs := s.jobs
	s.mu.Unlock()

	tick := s.tick.Add(1)

	for _, j := range jobs {
		if err := safeRun(ctx, j.fn, tick); err != nil {
			slog.ErrorContext(ctx, "refresh callback failed",
				slog.String("callback", j.name),
				slog.Uint64("tick", tick),
				slog.Any("error", err),
			)
		}
	}

	return tick
}

// Stop halts periodic ticking. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stop(nil)
}

// stop tears down c, or whichever scheduler is running when c is nil.
func (s *Scheduler) stop(c *gocron.Scheduler) {
	s.mu.Lock()

	cron, cancel := s.cron, s.cancel
	if cron == nil || (c != nil && c != cron) {
		s.mu.Unlock()
		return
	}

	s.cron = nil
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	cron.Stop()
	cron.Clear()

	slog.Info("refresh scheduler stopped", slog.Uint64("ticks", s.tick.Load()))
}

// Running reports whether periodic ticking is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cron != nil
}

func safeRun(ctx context.Context, fn Func, tick uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()

	return fn(ctx, tick)
}
