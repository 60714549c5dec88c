// Package session resolves the live status of orientation session windows and
// describes them relative to the current instant.
package session

import (
	"time"

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

// Window is the time interval of one scheduled slot.
type Window struct {
	// Date is PHT midnight of the slot's day.
	Date         time.Time
	StartMinutes int
	EndMinutes   int
}

// WindowOf extracts the window of a session snapshot.
func WindowOf(s *models.Session) Window {
	return Window{
		Date:         s.Date,
		StartMinutes: s.StartMinutes,
		EndMinutes:   s.EndMinutes,
	}
}

// Start returns the instant the window opens.
func (w Window) Start() time.Time {
	return timeutil.AtMinute(w.Date, w.StartMinutes)
}

// End returns the instant the window closes.
func (w Window) End() time.Time {
	return timeutil.AtMinute(w.Date, w.EndMinutes)
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End().Sub(w.Start())
}

// Validate checks the window invariants. A failure is a contract violation
// by the data source, not a loading condition.
func (w Window) Validate() error {
	if w.Date.IsZero() {
		return errMissingDate
	}

	if !timeutil.StartOfReferenceDay(w.Date).Equal(w.Date) {
		return errNotDayStart.Fmt(w.Date.Format(time.RFC3339))
	}

	if w.StartMinutes < 0 || w.EndMinutes > timeutil.LastMinute ||
		w.StartMinutes >= w.EndMinutes {
		return errInvalidWindow.Fmt(w.StartMinutes, w.EndMinutes)
	}

	return nil
}
