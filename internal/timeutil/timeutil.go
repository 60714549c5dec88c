// Package timeutil provides day-boundary arithmetic in the reference timezone
// (Philippine Time, UTC+8) and the clock-string helpers used across orient.
package timeutil

import (
	"math"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const (
	minutesInAnHour = 60
	// MinutesInADay is the number of minute offsets in a reference day.
	MinutesInADay = 1440
	// LastMinute is the largest valid minute-of-day offset.
	LastMinute = MinutesInADay - 1

	referenceOffset = 8 * 60 * 60
)

// Reference is the fixed frame for every day-boundary computation. It is a
// fixed offset so results never depend on tzdata or the device location.
var Reference = time.FixedZone("PHT", referenceOffset)

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// CeilMinutes returns the number of whole minutes needed to cover d, rounding
// any partial minute up.
func CeilMinutes(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(time.Minute)))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// StartOfReferenceDay returns the instant of 00:00:00 PHT on the reference
// day that contains t.
func StartOfReferenceDay(t time.Time) time.Time {
	r := t.In(Reference)

	return time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, Reference)
}

// EndOfReferenceDay returns the last nanosecond of the reference day that
// contains t.
func EndOfReferenceDay(t time.Time) time.Time {
	return StartOfReferenceDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameReferenceDay reports whether a and b fall on the same reference day.
func SameReferenceDay(a, b time.Time) bool {
	return StartOfReferenceDay(a).Equal(StartOfReferenceDay(b))
}

// AtMinute returns the instant minute minutes after day.
func AtMinute(day time.Time, minute int) time.Time {
	return day.Add(time.Duration(minute) * time.Minute)
}

// ReferenceDayKey returns the reference day of t as a YYYYMMDD integer.
func ReferenceDayKey(t time.Time) int {
	r := t.In(Reference)

	return r.Year()*10000 + int(r.Month())*100 + r.Day()
}

// FromMillis converts epoch milliseconds to an instant.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// keyLayout keeps every fractional digit so keys sort lexically.
const keyLayout = "2006-01-02T15:04:05.000000000Z"

// ToKey converts a time value to a sortable database key.
func ToKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}

// FormatMinute renders a minute-of-day offset as a wall clock string.
func FormatMinute(minute int, twentyFourHour bool) string {
	t := time.Date(2000, 1, 1, 0, minute, 0, 0, time.UTC)
	if twentyFourHour {
		return t.Format("15:04")
	}

	return t.Format("3:04 PM")
}

// ParseClock parses an "h:mm AM/PM" string into a minute-of-day offset.
func ParseClock(s string) (int, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))

	for _, layout := range []string{"3:04 PM", "3:04PM", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Hour()*minutesInAnHour + t.Minute(), nil
		}
	}

	return 0, errInvalidClock.Fmt(s)
}

// ParseTimeSlot parses a slot such as "9:00 AM - 12:00 PM" into start and end
// minute offsets.
func ParseTimeSlot(slot string) (start, end int, err error) {
	parts := strings.Split(slot, "-")
	if len(parts) != 2 {
		return 0, 0, errInvalidSlot.Fmt(slot)
	}

	start, err = ParseClock(parts[0])
	if err != nil {
		return 0, 0, errInvalidSlot.Fmt(slot).Wrap(err)
	}

	end, err = ParseClock(parts[1])
	if err != nil {
		return 0, 0, errInvalidSlot.Fmt(slot).Wrap(err)
	}

	if start >= end {
		return 0, 0, errInvalidSlot.Fmt(slot)
	}

	return start, end, nil
}

// FromStr parses human date input such as "yesterday", "2 hours ago" or
// "2025-01-28 9am" relative to now. Input without a zone is read in the
// reference timezone.
func FromStr(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime:     now.In(Reference),
		DefaultTimezone: Reference,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, errInvalidDate.Fmt(s).Wrap(err)
	}

	return dt.Time, nil
}
