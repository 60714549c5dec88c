package app

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/healthcard/orientation/attendee"
	"github.com/healthcard/orientation/dashboard"
	"github.com/healthcard/orientation/history"
	"github.com/healthcard/orientation/internal/timeutil"
	"github.com/healthcard/orientation/internal/ui"
)

const (
	noSessionsMsg = "No sessions found for the selected day"
	noScansMsg    = "No scans found for the specified time range"
)

// printStatus prints one table row per session followed by the day totals.
func printStatus(w io.Writer, v *dashboard.View, twentyFourHour bool) error {
	if v.Loading {
		pterm.Warning.Println("Session data is not available yet")
		return nil
	}

	if !v.Verified {
		pterm.Warning.Println("Times are based on the unverified device clock")
	}

	if len(v.Sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	var currentID string
	if v.Current != nil {
		currentID = v.Current.Session.ScheduleID
	}

	rows := [][]string{
		{"#", "TIME", "VENUE", "STATUS", "CONTEXT", "BOOKED", "PENDING", "IN", "DONE", "MISSED"},
	}

	for i := range v.Sessions {
		sv := &v.Sessions[i]

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			sv.Slot(twentyFourHour),
			sv.Session.Venue.Name,
			ui.SessionStatus(sv.Flags.Status(), sv.Session.ScheduleID == currentID, sv.Invalid),
			sv.TimeContext,
			strconv.Itoa(sv.Stats.Total),
			strconv.Itoa(sv.Stats.Pending),
			strconv.Itoa(sv.Stats.CheckedIn),
			strconv.Itoa(sv.Stats.Completed),
			strconv.Itoa(sv.Stats.Missed),
		})
	}

	if err := ui.PrintTable(w, "session", rows); err != nil {
		return err
	}

	if v.Current != nil && len(v.Current.Attendees) > 0 {
		if err := printAttendees(w, v.Current); err != nil {
			return err
		}
	}

	t := v.Totals
	fmt.Fprintf(w, "%s %d booked, %s pending, %s checked in, %s completed, %s missed\n",
		ui.Highlight("Totals:"),
		t.Total,
		ui.AttendeeCount(attendee.Pending, t.Pending),
		ui.AttendeeCount(attendee.CheckedIn, t.CheckedIn),
		ui.AttendeeCount(attendee.Completed, t.Completed),
		ui.AttendeeCount(attendee.Missed, t.Missed),
	)

	for _, d := range v.Diagnostics {
		pterm.Warning.Printfln("%s: %s", d.Kind, d.Message)
	}

	return nil
}

func printAttendees(w io.Writer, sv *dashboard.SessionView) error {
	rows := [][]string{{"NAME", "ID", "STATUS"}}

	for i := range sv.Attendees {
		a := &sv.Attendees[i]

		rows = append(rows, []string{a.FullName, a.Identity, ui.AttendeeStatus(a.Status)})
	}

	fmt.Fprintf(w, "%s %s\n", ui.Highlight("Attendees of"), sv.Session.Venue.Name)

	return ui.PrintTable(w, "attendee", rows)
}

// printHistory prints one table per reference day, newest first.
func printHistory(w io.Writer, groups []history.DayGroup, now time.Time, twentyFourHour bool) error {
	if len(groups) == 0 {
		pterm.Info.Println(noScansMsg)
		return nil
	}

	layout := "3:04 PM"
	if twentyFourHour {
		layout = "15:04"
	}

	summaries := history.Summarize(groups)

	for i := range groups {
		g := &groups[i]
		s := summaries[i]

		header := fmt.Sprintf("%s  %d check-ins, %d check-outs",
			ui.Highlight(g.Label(now)), s.CheckIns, s.CheckOuts)

		if s.Average > 0 {
			header += ", average visit " + formatDuration(s.Average)
		}

		fmt.Fprintln(w, header)

		rows := [][]string{{"TIME", "TYPE", "NAME", "SESSION", "VENUE", "DURATION"}}

		for _, e := range g.Entries {
			ev := e.Event

			var dur string
			if e.Duration != nil {
				dur = formatDuration(*e.Duration)
			}

			rows = append(rows, []string{
				ev.Timestamp.In(timeutil.Reference).Format(layout),
				ui.ScanType(ev.ScanType),
				ev.AttendeeName,
				firstNonEmptyString(ev.SessionTimeSlot, ev.SessionReference),
				ev.SessionVenue,
				dur,
			})
		}

		if err := ui.PrintTable(w, "scan history", rows); err != nil {
			return err
		}
	}

	return nil
}
