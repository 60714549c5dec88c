// Package dashboard composes resolved session and attendee states into the
// inspector dashboard view.
package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/healthcard/orientation/attendee"
	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
	"github.com/healthcard/orientation/session"
)

// DefaultMaxUpcoming caps the upcoming list when Options leaves it unset.
const DefaultMaxUpcoming = 5

// Stats counts the attendees of one or more sessions per status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	CheckedIn int `json:"checkedIn"`
	Completed int `json:"completed"`
	Missed    int `json:"missed"`
}

func (s *Stats) add(st attendee.Status) {
	s.Total++

	switch st {
	case attendee.Pending:
		s.Pending++
	case attendee.CheckedIn:
		s.CheckedIn++
	case attendee.Completed:
		s.Completed++
	case attendee.Missed:
		s.Missed++
	}
}

// Plus returns the element-wise sum of s and o.
func (s Stats) Plus(o Stats) Stats {
	return Stats{
		Total:     s.Total + o.Total,
		Pending:   s.Pending + o.Pending,
		CheckedIn: s.CheckedIn + o.CheckedIn,
		Completed: s.Completed + o.Completed,
		Missed:    s.Missed + o.Missed,
	}
}

// Count returns the number of attendees with status st.
func (s Stats) Count(st attendee.Status) int {
	switch st {
	case attendee.Pending:
		return s.Pending
	case attendee.CheckedIn:
		return s.CheckedIn
	case attendee.Completed:
		return s.Completed
	case attendee.Missed:
		return s.Missed
	}

	return 0
}

// Counts tallies sessions by their time-based status.
type Counts struct {
	Active   int `json:"active"`
	Upcoming int `json:"upcoming"`
	Past     int `json:"past"`
}

type AttendeeView struct {
	models.Attendee
	Status attendee.Status `json:"status"`
}

// SessionView is the derived state of one session at one instant.
type SessionView struct {
	Session     models.Session `json:"session"`
	Window      session.Window `json:"-"`
	TimeContext string         `json:"timeContext"`
	Attendees   []AttendeeView `json:"attendees"`
	Flags       session.Flags  `json:"flags"`
	Stats       Stats          `json:"stats"`
	Warning     bool           `json:"warning"`
	Invalid     bool           `json:"invalid"`
}

// Start returns the instant the session opens.
func (v *SessionView) Start() time.Time {
	return v.Window.Start()
}

// Slot renders the session window as "9:00 AM - 12:00 PM".
func (v *SessionView) Slot(twentyFourHour bool) string {
	return timeutil.FormatMinute(v.Session.StartMinutes, twentyFourHour) +
		" - " + timeutil.FormatMinute(v.Session.EndMinutes, twentyFourHour)
}

// DiagnosticKind classifies a data inconsistency worth an operator's
// attention.
type DiagnosticKind string

const (
	DiagOverlappingActive DiagnosticKind = "overlapping-active"
	DiagHintDivergence    DiagnosticKind = "hint-divergence"
	DiagInvalidWindow     DiagnosticKind = "invalid-window"
	DiagInvalidAttendee   DiagnosticKind = "invalid-attendee"
)

type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	ScheduleID string         `json:"scheduleId"`
	Message    string         `json:"message"`
}

// View is the whole dashboard at one instant. It is rebuilt from scratch on
// every tick and never mutated afterwards.
type View struct {
	Now         time.Time     `json:"now"`
	Current     *SessionView  `json:"current,omitempty"`
	Upcoming    []SessionView `json:"upcoming"`
	Sessions    []SessionView `json:"sessions"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
	Totals      Stats         `json:"totals"`
	Counts      Counts        `json:"counts"`
	Tick        uint64        `json:"tick"`
	Verified    bool          `json:"verified"`
	Loading     bool          `json:"loading"`
}

// Options tunes Build.
type Options struct {
	MaxUpcoming int
}

// Build resolves every session and attendee at now and assembles the
// dashboard. It is a pure function of its inputs.
func Build(sessions []models.Session, now time.Time, opts Options) View {
	maxUpcoming := opts.MaxUpcoming
	if maxUpcoming <= 0 {
		maxUpcoming = DefaultMaxUpcoming
	}

	view := View{
		Now:      now,
		Verified: true,
		Sessions: make([]SessionView, 0, len(sessions)),
		Upcoming: []SessionView{},
	}

	for i := range sessions {
		sv, diags := resolveSession(&sessions[i], now)

		view.Sessions = append(view.Sessions, sv)
		view.Diagnostics = append(view.Diagnostics, diags...)
		view.Totals = view.Totals.Plus(sv.Stats)

		switch sv.Flags.Status() {
		case session.Active:
			view.Counts.Active++
		case session.Upcoming:
			view.Counts.Upcoming++
		case session.Past:
			view.Counts.Past++
		}
	}

	slices.SortStableFunc(view.Sessions, compareSessions)

	current, active := selectCurrent(view.Sessions)
	if len(active) > 1 {
		view.Diagnostics = append(view.Diagnostics, overlapDiagnostic(view.Sessions, active))
	}

	if current >= 0 {
		c := view.Sessions[current]
		view.Current = &c
	}

	for i := range view.Sessions {
		if i == current || !view.Sessions[i].Flags.IsUpcoming {
			continue
		}

		if len(view.Upcoming) == maxUpcoming {
			break
		}

		view.Upcoming = append(view.Upcoming, view.Sessions[i])
	}

	return view
}

func resolveSession(s *models.Session, now time.Time) (SessionView, []Diagnostic) {
	var diags []Diagnostic

	w := session.WindowOf(s)

	sv := SessionView{
		Session: *s,
		Window:  w,
	}

	if err := w.Validate(); err != nil {
		sv.Invalid = true
		sv.Flags = session.Flags{IsPast: true}

		diags = append(diags, Diagnostic{
			Kind:       DiagInvalidWindow,
			ScheduleID: s.ScheduleID,
			Message:    err.Error(),
		})
	} else {
		sv.Flags = session.Resolve(w, now)

		d := session.Describe(w, now)
		sv.TimeContext = d.Text
		sv.Warning = d.Warning

		if diag, ok := hintDivergence(s, sv.Flags, w); ok {
			diags = append(diags, diag)
		}
	}

	sv.Attendees = make([]AttendeeView, 0, len(s.Attendees))

	for i := range s.Attendees {
		a := &s.Attendees[i]

		if err := attendee.Validate(a); err != nil {
			diags = append(diags, Diagnostic{
				Kind:       DiagInvalidAttendee,
				ScheduleID: s.ScheduleID,
				Message:    err.Error(),
			})
		}

		var st attendee.Status
		if sv.Invalid {
			st = attendee.Resolve(a.CheckInTime, a.CheckOutTime, nil, now)
		} else {
			st = attendee.Of(a, &w, now)
		}

		sv.Stats.add(st)
		sv.Attendees = append(sv.Attendees, AttendeeView{Attendee: *a, Status: st})
	}

	slices.SortStableFunc(sv.Attendees, func(a, b AttendeeView) int {
		if a.FullName != b.FullName {
			if natural.Less(a.FullName, b.FullName) {
				return -1
			}

			return 1
		}

		return strings.Compare(a.Identity, b.Identity)
	})

	return sv, diags
}

// hintDivergence reports backend hints that contradict the clock in a way
// that cannot be explained by ordinary snapshot lag. A session hinted as
// upcoming that has already started is normal lag; one hinted as upcoming
// after it ended, or hinted as past before it ended, is not.
func hintDivergence(s *models.Session, f session.Flags, w session.Window) (Diagnostic, bool) {
	var msg string

	switch {
	case s.IsUpcoming != nil && *s.IsUpcoming && f.IsPast:
		msg = fmt.Sprintf(
			"backend reports session as upcoming but it ended at %s; snapshot may be stale",
			w.End().Format(time.RFC3339),
		)
	case s.IsPast != nil && *s.IsPast && !f.IsPast:
		msg = fmt.Sprintf(
			"backend reports session as past but it ends at %s",
			w.End().Format(time.RFC3339),
		)
	default:
		return Diagnostic{}, false
	}

	return Diagnostic{
		Kind:       DiagHintDivergence,
		ScheduleID: s.ScheduleID,
		Message:    msg,
	}, true
}

// compareSessions orders by start instant. Equal starts prefer a session the
// backend does not hint as past, then the lower schedule ID.
func compareSessions(a, b SessionView) int {
	if c := a.Start().Compare(b.Start()); c != 0 {
		return c
	}

	if c := cmp.Compare(hintedPast(&a), hintedPast(&b)); c != 0 {
		return c
	}

	return strings.Compare(a.Session.ScheduleID, b.Session.ScheduleID)
}

func hintedPast(v *SessionView) int {
	if v.Session.IsPast != nil && *v.Session.IsPast {
		return 1
	}

	return 0
}

// selectCurrent picks the session to highlight from views sorted by
// compareSessions: the first active one, else the first upcoming one. It
// also returns the indices of every active session.
func selectCurrent(views []SessionView) (current int, active []int) {
	current = -1

	for i := range views {
		if views[i].Flags.IsActive {
			active = append(active, i)
		}
	}

	if len(active) > 0 {
		return active[0], active
	}

	for i := range views {
		if views[i].Flags.IsUpcoming {
			return i, nil
		}
	}

	return -1, nil
}

func overlapDiagnostic(views []SessionView, active []int) Diagnostic {
	ids := make([]string, len(active))
	for i, idx := range active {
		ids[i] = views[idx].Session.ScheduleID
	}

	return Diagnostic{
		Kind:       DiagOverlappingActive,
		ScheduleID: ids[0],
		Message: fmt.Sprintf(
			"%d sessions are active at the same time (%s); highlighting the earliest",
			len(ids),
			strings.Join(ids, ", "),
		),
	}
}
