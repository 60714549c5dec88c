package session

import (
	"fmt"
	"time"

	"github.com/healthcard/orientation/internal/timeutil"
)

const (
	endingSoonMinutes = 15
	minutesInAnHour   = 60

	warningMarker  = "⚠️"
	otherDayLayout = "Mon, Jan 2 at 3:04 PM"

	msgEnded       = "Session ended"
	msgStartingNow = "Starting now..."
)

// Description is the time context of a window at one instant.
type Description struct {
	Text string
	// Minutes is the countdown value the text was built from, if any.
	Minutes int
	Status  Status
	// Warning marks a session that is about to end.
	Warning bool
}

// MinutesRemaining returns the whole minutes, rounded up, until w ends.
func MinutesRemaining(w Window, now time.Time) int {
	return timeutil.CeilMinutes(w.End().Sub(now))
}

// MinutesUntil returns the whole minutes, rounded up, until w starts.
func MinutesUntil(w Window, now time.Time) int {
	return timeutil.CeilMinutes(w.Start().Sub(now))
}

// Context returns a short phrase relating now to w, such as
// "Starts in 12 minutes" or "Session ended".
func Context(w Window, now time.Time) string {
	return Describe(w, now).Text
}

// Describe computes the time context of w at now. The status is always
// recomputed from the clock.
func Describe(w Window, now time.Time) Description {
	flags := Resolve(w, now)

	switch {
	case flags.IsActive:
		remaining := MinutesRemaining(w, now)

		d := Description{Status: Active, Minutes: remaining}

		switch {
		case remaining < endingSoonMinutes:
			d.Warning = true
			d.Text = fmt.Sprintf("%s Ending in %s", warningMarker, pluralMinutes(remaining))
		case remaining < minutesInAnHour:
			d.Text = "Ends in " + pluralMinutes(remaining)
		default:
			d.Text = "Ends in " + hoursAndMinutes(remaining)
		}

		return d

	case flags.IsUpcoming && timeutil.SameReferenceDay(w.Start(), now):
		until := MinutesUntil(w, now)

		d := Description{Status: Upcoming, Minutes: until}

		switch {
		case until == 0:
			d.Text = msgStartingNow
		case until < minutesInAnHour:
			d.Text = "Starts in " + pluralMinutes(until)
		default:
			d.Text = "Starts in " + hoursAndMinutes(until)
		}

		return d

	case flags.IsUpcoming:
		return Description{
			Status: Upcoming,
			Text:   "Starts " + w.Start().In(timeutil.Reference).Format(otherDayLayout),
		}

	case flags.IsPast:
		return Description{Status: Past, Text: msgEnded}
	}

	return Description{Status: Past}
}

// SlotContext describes a slot given as an "h:mm AM/PM - h:mm AM/PM" string,
// as found in scan history records. It returns an empty string when the slot
// cannot be parsed; callers must read that as "no context available".
func SlotContext(date time.Time, slot string, now time.Time) string {
	start, end, err := timeutil.ParseTimeSlot(slot)
	if err != nil {
		return ""
	}

	w := Window{
		Date:         timeutil.StartOfReferenceDay(date),
		StartMinutes: start,
		EndMinutes:   end,
	}

	return Context(w, now)
}

func pluralMinutes(n int) string {
	if n == 1 {
		return "1 minute"
	}

	return fmt.Sprintf("%d minutes", n)
}

func hoursAndMinutes(total int) string {
	h, m := timeutil.MinsToHoursAndMins(total)

	return fmt.Sprintf("%dh %dm", h, m)
}
