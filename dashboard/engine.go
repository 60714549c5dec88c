package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

// Source is the session snapshot query of the external data store.
type Source interface {
	Sessions(ctx context.Context, day time.Time) ([]models.Session, error)
}

// TimeSource supplies the current instant. clock.Clock satisfies it.
type TimeSource interface {
	Now() (time.Time, error)
	Display() (time.Time, bool)
	Today() (time.Time, error)
}

type snapshot struct {
	day       time.Time
	fetchedAt time.Time
	sessions  []models.Session
}

// Engine keeps the latest session snapshot and turns it into a View on
// demand. Snapshots are replaced wholesale and never mutated.
type Engine struct {
	source      Source
	clock       TimeSource
	day         time.Time
	snap        atomic.Pointer[snapshot]
	last        atomic.Pointer[View]
	subscribers []func(View)
	opts        Options
	mu          sync.Mutex
	unverified  bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDay pins the dashboard to the reference day containing day instead of
// following today.
func WithDay(day time.Time) EngineOption {
	return func(e *Engine) {
		if !day.IsZero() {
			e.day = timeutil.StartOfReferenceDay(day)
		}
	}
}

// WithOptions sets the aggregation options.
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithUnverified lets the engine render against the device clock, flagged
// as unverified, while the trusted clock is not anchored yet.
func WithUnverified(allow bool) EngineOption {
	return func(e *Engine) {
		e.unverified = allow
	}
}

// NewEngine returns an engine reading from src and clk.
func NewEngine(src Source, clk TimeSource, opts ...EngineOption) *Engine {
	e := &Engine{
		source: src,
		clock:  clk,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Subscribe registers fn to receive every recomputed view.
func (e *Engine) Subscribe(fn func(View)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = append(e.subscribers, fn)
}

// Day returns the reference day whose sessions are shown. It is unknown
// until the clock can be read.
func (e *Engine) Day() (time.Time, bool) {
	if !e.day.IsZero() {
		return e.day, true
	}

	today, err := e.clock.Today()
	if err == nil {
		return today, true
	}

	if e.unverified {
		now, _ := e.clock.Display()
		return timeutil.StartOfReferenceDay(now), true
	}

	return time.Time{}, false
}

// Refresh fetches a new snapshot for the selected day. A failed fetch keeps
// the previous snapshot in place.
func (e *Engine) Refresh(ctx context.Context, _ uint64) error {
	day, ok := e.Day()
	if !ok {
		return nil
	}

	sessions, err := e.source.Sessions(ctx, day)
	if err != nil {
		return errFetchSnapshot.Fmt(day.Format(time.DateOnly)).Wrap(err)
	}

	now, _ := e.clock.Display()

	e.SetSnapshot(day, sessions, now)

	return nil
}

// SetSnapshot replaces the current snapshot.
func (e *Engine) SetSnapshot(day time.Time, sessions []models.Session, fetchedAt time.Time) {
	e.snap.Store(&snapshot{
		day:       day,
		fetchedAt: fetchedAt,
		sessions:  sessions,
	})
}

// Compute builds the view for the current instant without publishing it.
func (e *Engine) Compute(tick uint64) View {
	now, verified := e.clock.Display()

	snap := e.snap.Load()
	if snap == nil || (!verified && !e.unverified) {
		return View{
			Now:      now,
			Verified: verified,
			Loading:  true,
			Tick:     tick,
			Upcoming: []SessionView{},
			Sessions: []SessionView{},
		}
	}

	v := Build(snap.sessions, now, e.opts)
	v.Verified = verified
	v.Tick = tick

	return v
}

// Recompute builds the current view and publishes it to subscribers.
func (e *Engine) Recompute(ctx context.Context, tick uint64) error {
	v := e.Compute(tick)

	e.last.Store(&v)

	if len(v.Diagnostics) > 0 {
		slog.DebugContext(ctx, "dashboard diagnostics",
			slog.Uint64("tick", tick),
			slog.Int("count", len(v.Diagnostics)),
		)
	}

	e.mu.Lock()
	subscribers := e.subscribers
	e.mu.Unlock()

	for _, fn := range subscribers {
		fn(v)
	}

	return nil
}

// Latest returns the most recently published view.
func (e *Engine) Latest() (View, bool) {
	v := e.last.Load()
	if v == nil {
		return View{}, false
	}

	return *v, true
}
