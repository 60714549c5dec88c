// Package attendee derives an attendee's progress through check-in and
// check-out.
package attendee

import (
	"time"

	"github.com/healthcard/orientation/internal/apperr"
	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/session"
)

// Status is the derived attendance state of one attendee.
type Status string

const (
	Pending   Status = "pending"
	CheckedIn Status = "checked-in"
	Completed Status = "completed"
	Missed    Status = "missed"
)

// All lists every status in display order.
var All = []Status{Pending, CheckedIn, Completed, Missed}

var errCheckOutBeforeCheckIn = &apperr.Error{
	Message: "attendee %s checked out at %s before checking in at %s",
}

// Resolve derives the status from the scan instants. The checks run from
// the most to the least informative state, so an orphaned check-out still
// reads as completed. Missed is only possible when the window is known and
// has ended at now.
func Resolve(
	checkIn, checkOut *time.Time,
	w *session.Window,
	now time.Time,
) Status {
	switch {
	case checkOut != nil:
		return Completed
	case checkIn != nil:
		return CheckedIn
	case w != nil && session.Resolve(*w, now).IsPast:
		return Missed
	default:
		return Pending
	}
}

// Of resolves the status of a booking within its session.
func Of(a *models.Attendee, w *session.Window, now time.Time) Status {
	return Resolve(a.CheckInTime, a.CheckOutTime, w, now)
}

// Validate checks that a check-out never precedes its check-in.
func Validate(a *models.Attendee) error {
	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return nil
	}

	if a.CheckOutTime.Before(*a.CheckInTime) {
		return errCheckOutBeforeCheckIn.Fmt(
			a.Identity,
			a.CheckOutTime.Format(time.RFC3339),
			a.CheckInTime.Format(time.RFC3339),
		)
	}

	return nil
}

// Duration returns the time spent between check-in and check-out, if both
// are known.
func Duration(a *models.Attendee) (time.Duration, bool) {
	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return 0, false
	}

	return a.CheckOutTime.Sub(*a.CheckInTime), true
}
