// Package clock provides a trusted notion of "now" anchored to a remote time
// authority, so that a tampered device clock cannot move the dashboard in
// time.
package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/healthcard/orientation/internal/timeutil"
)

// Authority is the remote source of trusted time.
type Authority interface {
	// ServerTime returns the authority's current instant.
	ServerTime(ctx context.Context) (time.Time, error)
	// ReferenceDayStart returns the start of today in the reference
	// timezone as computed by the authority.
	ReferenceDayStart(ctx context.Context) (time.Time, error)
}

type anchor struct {
	server   time.Time
	local    time.Time
	dayStart time.Time
}

// Clock computes now as the anchor's server instant plus the local time
// elapsed since the anchor was taken. Only the elapsed duration of the local
// clock is trusted, never its absolute value.
type Clock struct {
	local     func() time.Time
	anchor    *anchor
	observers []func()
	mu        sync.RWMutex
}

// Option configures a Clock.
type Option func(*Clock)

// WithLocal replaces the local time source. The default is time.Now, whose
// monotonic reading makes the elapsed duration immune to wall clock changes.
func WithLocal(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.local = now
		}
	}
}

// New returns a clock without an anchor.
func New(opts ...Option) *Clock {
	c := &Clock{local: time.Now}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Sync fetches an anchor from the authority. The first successful Sync fires
// the observers registered with OnSync.
func (c *Clock) Sync(ctx context.Context, a Authority) error {
	server, err := a.ServerTime(ctx)
	if err != nil {
		return errFetchServerTime.Wrap(err)
	}

	localAt := c.local()

	dayStart, err := a.ReferenceDayStart(ctx)
	if err != nil {
		slog.WarnContext(ctx, "reference day start unavailable, deriving it locally",
			slog.Any("error", err))

		dayStart = timeutil.StartOfReferenceDay(server)
	}

	if !dayStart.Equal(timeutil.StartOfReferenceDay(server)) {
		slog.WarnContext(ctx, "authority day start disagrees with its own instant",
			slog.Time("day_start", dayStart),
			slog.Time("server_instant", server),
		)
	}

	c.mu.Lock()

	first := c.anchor == nil

	c.anchor = &anchor{
		server:   server,
		local:    localAt,
		dayStart: dayStart,
	}

	observers := c.observers

	c.mu.Unlock()

	slog.InfoContext(ctx, "trusted clock anchored",
		slog.Time("server_instant", server),
		slog.Duration("local_skew", localAt.Sub(server)),
	)

	if first {
		for _, fn := range observers {
			fn()
		}
	}

	return nil
}

// OnSync registers fn to run once the first anchor is available. If the
// clock is already anchored fn runs immediately.
func (c *Clock) OnSync(fn func()) {
	c.mu.Lock()

	if c.anchor != nil {
		c.mu.Unlock()
		fn()

		return
	}

	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Synced reports whether an anchor has been obtained.
func (c *Clock) Synced() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.anchor != nil
}

// Now returns the trusted current instant, or ErrNotSynced before the first
// anchor. Callers must treat that as a loading state.
func (c *Clock) Now() (time.Time, error) {
	c.mu.RLock()
	a := c.anchor
	c.mu.RUnlock()

	if a == nil {
		return time.Time{}, ErrNotSynced
	}

	return a.server.Add(c.local().Sub(a.local)), nil
}

// Display returns the trusted instant when available. Otherwise it falls
// back to the local clock and reports verified as false; such a value is
// only fit for display behind an "unverified" marker.
func (c *Clock) Display() (now time.Time, verified bool) {
	t, err := c.Now()
	if err != nil {
		return c.local(), false
	}

	return t, true
}

// Today returns the start of the current reference day.
func (c *Clock) Today() (time.Time, error) {
	now, err := c.Now()
	if err != nil {
		return time.Time{}, err
	}

	c.mu.RLock()
	reported := c.anchor.dayStart
	c.mu.RUnlock()

	today := timeutil.StartOfReferenceDay(now)
	if today.Equal(timeutil.StartOfReferenceDay(reported)) {
		return reported, nil
	}

	return today, nil
}
