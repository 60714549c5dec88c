// Package history groups scan events into reference-day buckets for the
// scan history views.
package history

import (
	"slices"
	"strings"
	"time"

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

const (
	labelToday     = "Today"
	labelYesterday = "Yesterday"
	labelLayout    = "Mon, Jan 2 2006"
)

// Filter narrows the events to group. Zero bounds are open and an empty
// type matches both scan types.
type Filter struct {
	Start time.Time
	End   time.Time
	Type  models.ScanType
}

// Query converts f to a store query returning at most limit events. A
// non-positive limit is unbounded.
func (f Filter) Query(limit int) models.ScanQuery {
	return models.ScanQuery{
		StartDate: f.Start,
		EndDate:   f.End,
		ScanType:  f.Type,
		Limit:     limit,
	}
}

// Entry is one scan event with its derived visit duration. Duration is only
// set for check-outs whose check-in is known and is advisory.
type Entry struct {
	Duration *time.Duration   `json:"duration,omitempty"`
	Event    models.ScanEvent `json:"event"`
}

// DayGroup holds the events of one reference day, most recent first.
type DayGroup struct {
	Day     time.Time `json:"day"`
	Entries []Entry   `json:"entries"`
}

// Label names the group relative to now, such as "Today" or
// "Mon, Jan 27 2025".
func (g *DayGroup) Label(now time.Time) string {
	today := timeutil.StartOfReferenceDay(now)

	switch {
	case g.Day.Equal(today):
		return labelToday
	case g.Day.Equal(today.AddDate(0, 0, -1)):
		return labelYesterday
	default:
		return g.Day.In(timeutil.Reference).Format(labelLayout)
	}
}

// Group filters events and buckets them by the reference day of their
// timestamp. Groups and the entries within them are ordered newest first.
// Durations are matched against the whole of events, so a check-in outside
// the filter can still pair with a check-out inside it.
func Group(events []models.ScanEvent, filter Filter) []DayGroup {
	q := filter.Query(0)
	checkIns := indexCheckIns(events)

	buckets := make(map[int]*DayGroup)

	for i := range events {
		ev := &events[i]

		if !q.Matches(ev) {
			continue
		}

		key := timeutil.ReferenceDayKey(ev.Timestamp)

		g, ok := buckets[key]
		if !ok {
			g = &DayGroup{Day: timeutil.StartOfReferenceDay(ev.Timestamp)}
			buckets[key] = g
		}

		g.Entries = append(g.Entries, Entry{
			Event:    *ev,
			Duration: duration(ev, checkIns),
		})
	}

	groups := make([]DayGroup, 0, len(buckets))
	for _, g := range buckets {
		slices.SortFunc(g.Entries, compareEntries)
		groups = append(groups, *g)
	}

	slices.SortFunc(groups, func(a, b DayGroup) int {
		return b.Day.Compare(a.Day)
	})

	return groups
}

func compareEntries(a, b Entry) int {
	if c := b.Event.Timestamp.Compare(a.Event.Timestamp); c != 0 {
		return c
	}

	return strings.Compare(a.Event.ID, b.Event.ID)
}

type visit struct {
	attendee string
	session  string
}

func visitOf(ev *models.ScanEvent) visit {
	ref := ev.SessionReference
	if ref == "" {
		ref = ev.SessionDate.UTC().Format(time.DateOnly) + " " + ev.SessionTimeSlot
	}

	return visit{attendee: ev.AttendeeIdentity, session: ref}
}

// indexCheckIns collects check-in instants per attendee and session in
// ascending order.
func indexCheckIns(events []models.ScanEvent) map[visit][]time.Time {
	idx := make(map[visit][]time.Time)

	for i := range events {
		ev := &events[i]
		if ev.ScanType != models.CheckIn {
			continue
		}

		k := visitOf(ev)
		idx[k] = append(idx[k], ev.Timestamp)
	}

	for _, times := range idx {
		slices.SortFunc(times, time.Time.Compare)
	}

	return idx
}

func duration(ev *models.ScanEvent, checkIns map[visit][]time.Time) *time.Duration {
	if ev.ScanType != models.CheckOut {
		return nil
	}

	out := ev.Timestamp
	if ev.CheckOutTime != nil {
		out = *ev.CheckOutTime
	}

	var in time.Time

	if ev.CheckInTime != nil {
		in = *ev.CheckInTime
	} else {
		times := checkIns[visitOf(ev)]

		// latest check-in not after the check-out
		i, found := slices.BinarySearchFunc(times, out, time.Time.Compare)
		if found {
			for i+1 < len(times) && times[i+1].Equal(out) {
				i++
			}

			in = times[i]
		} else if i > 0 {
			in = times[i-1]
		}
	}

	if in.IsZero() || out.Before(in) {
		return nil
	}

	d := out.Sub(in)

	return &d
}

// DaySummary counts the scans of one day.
type DaySummary struct {
	Day       time.Time     `json:"day"`
	CheckIns  int           `json:"checkIns"`
	CheckOuts int           `json:"checkOuts"`
	Average   time.Duration `json:"averageDuration"`
}

// Summarize counts check-ins and check-outs per group and averages the known
// visit durations.
func Summarize(groups []DayGroup) []DaySummary {
	out := make([]DaySummary, 0, len(groups))

	for i := range groups {
		s := DaySummary{Day: groups[i].Day}

		var (
			total time.Duration
			n     int
		)

		for _, e := range groups[i].Entries {
			switch e.Event.ScanType {
			case models.CheckIn:
				s.CheckIns++
			case models.CheckOut:
				s.CheckOuts++
			}

			if e.Duration != nil {
				total += *e.Duration
				n++
			}
		}

		if n > 0 {
			s.Average = total / time.Duration(n)
		}

		out = append(out, s)
	}

	return out
}
