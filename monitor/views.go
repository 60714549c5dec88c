package monitor

import (
	"fmt"
	"strings"

	"github.com/healthcard/orientation/attendee"
	"github.com/healthcard/orientation/dashboard"
	"github.com/healthcard/orientation/internal/timeutil"
)

const (
	clockLayout12 = "Mon, Jan 2 2006 3:04:05 PM"
	clockLayout24 = "Mon, Jan 2 2006 15:04:05"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.loading() {
		b.WriteString(m.loadingView())
	} else {
		b.WriteString(m.currentView())
		b.WriteString("\n")
		b.WriteString(m.upcomingView())
		b.WriteString("\n")
		b.WriteString(m.totalsView())

		if d := m.diagnosticsView(); d != "" {
			b.WriteString("\n\n")
			b.WriteString(d)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.base.Render(b.String())
}

func (m *Model) headerView() string {
	title := m.styles.title.Render(m.opts.Title)

	if !m.received || m.view.Now.IsZero() {
		return title
	}

	layout := clockLayout12
	if m.opts.TwentyFourHour {
		layout = clockLayout24
	}

	now := m.styles.secondary.Render(
		m.view.Now.In(timeutil.Reference).Format(layout) + " PHT",
	)

	badge := m.styles.verified.Render("verified")
	if !m.view.Verified {
		badge = m.styles.unverify.Render("unverified clock")
	}

	return fmt.Sprintf("%s  %s  %s", title, now, badge)
}

func (m *Model) loadingView() string {
	msg := "Loading sessions..."
	if m.received && !m.view.Verified {
		msg = "Waiting for server time..."
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.styles.hint.Render(msg))
}

func (m *Model) currentView() string {
	cur := m.view.Current
	if cur == nil {
		return m.styles.hint.Render("No active or upcoming session today") + "\n"
	}

	var b strings.Builder

	label := m.styles.upcoming.Render("NEXT")
	if cur.Flags.IsActive {
		label = m.styles.active.Render("NOW")
	}

	fmt.Fprintf(&b, "%s  %s  %s\n",
		label,
		m.styles.main.Render(cur.Session.Venue.Name),
		m.styles.secondary.Render(cur.Slot(m.opts.TwentyFourHour)),
	)

	ctx := m.styles.secondary.Render(cur.TimeContext)
	if cur.Warning {
		ctx = m.styles.warning.Render(cur.TimeContext)
	}

	b.WriteString(ctx)
	b.WriteString("\n")
	b.WriteString(m.styles.hint.Render(statsLine(cur.Stats)))
	b.WriteString("\n")

	if m.showAttendees {
		for i := range cur.Attendees {
			a := &cur.Attendees[i]

			fmt.Fprintf(&b, "  %-12s %s\n", a.Status, a.FullName)
		}
	}

	return b.String()
}

func (m *Model) upcomingView() string {
	var b strings.Builder

	b.WriteString(m.styles.main.Render("Upcoming"))
	b.WriteString("\n")

	if len(m.view.Upcoming) == 0 {
		b.WriteString(m.styles.hint.Render("  Nothing else scheduled"))
		b.WriteString("\n")

		return b.String()
	}

	for i := range m.view.Upcoming {
		s := &m.view.Upcoming[i]

		fmt.Fprintf(&b, "  %s  %s  %s\n",
			m.styles.upcoming.Render(s.Slot(m.opts.TwentyFourHour)),
			m.styles.secondary.Render(s.Session.Venue.Name),
			m.styles.hint.Render(s.TimeContext),
		)
	}

	return b.String()
}

func (m *Model) totalsView() string {
	c := m.view.Counts

	sessions := fmt.Sprintf("%d active, %d upcoming, %d past", c.Active, c.Upcoming, c.Past)

	return m.styles.main.Render("Today") + "\n  " +
		m.styles.secondary.Render(sessions) + "\n  " +
		m.styles.hint.Render(statsLine(m.view.Totals))
}

func (m *Model) diagnosticsView() string {
	if len(m.view.Diagnostics) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.warning.Render(
		fmt.Sprintf("%d data issue(s)", len(m.view.Diagnostics)),
	))

	for _, d := range m.view.Diagnostics {
		fmt.Fprintf(&b, "\n  %s %s", m.styles.hint.Render(string(d.Kind)), d.Message)
	}

	return b.String()
}

func statsLine(s dashboard.Stats) string {
	parts := make([]string, 0, len(attendee.All)+1)
	parts = append(parts, fmt.Sprintf("%d booked", s.Total))

	for _, st := range attendee.All {
		parts = append(parts, fmt.Sprintf("%d %s", s.Count(st), st))
	}

	return strings.Join(parts, " · ")
}
