// Package ui renders orient's coloured terminal output.
package ui

import (
	"github.com/pterm/pterm"

	"github.com/healthcard/orientation/attendee"
	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/session"
)

// DarkTheme switches every colour to its light variant.
var DarkTheme bool

type shade struct {
	light pterm.Color
	dark  pterm.Color
}

var (
	green     = shade{pterm.FgGreen, pterm.FgLightGreen}
	cyan      = shade{pterm.FgCyan, pterm.FgLightCyan}
	magenta   = shade{pterm.FgMagenta, pterm.FgLightMagenta}
	blue      = shade{pterm.FgBlue, pterm.FgLightBlue}
	red       = shade{pterm.FgRed, pterm.FgLightRed}
	highlight = shade{pterm.FgBlack, pterm.FgLightWhite}
)

func (s shade) paint(a any) string {
	if DarkTheme {
		return s.dark.Sprint(a)
	}

	return s.light.Sprint(a)
}

func Green(a any) string     { return green.paint(a) }
func Cyan(a any) string      { return cyan.paint(a) }
func Blue(a any) string      { return blue.paint(a) }
func Red(a any) string       { return red.paint(a) }
func Highlight(a any) string { return highlight.paint(a) }

var attendeeShades = map[attendee.Status]shade{
	attendee.Pending:   highlight,
	attendee.CheckedIn: cyan,
	attendee.Completed: green,
	attendee.Missed:    red,
}

// AttendeeStatus colours an attendee status.
func AttendeeStatus(st attendee.Status) string {
	s, ok := attendeeShades[st]
	if !ok {
		s = highlight
	}

	return s.paint(st)
}

// AttendeeCount colours a per-status count the same way as the status.
func AttendeeCount(st attendee.Status, n int) string {
	s, ok := attendeeShades[st]
	if !ok {
		s = highlight
	}

	return s.paint(n)
}

// SessionStatus labels a session for the status table. The highlighted
// session reads "now" or "next"; invalid windows always read "invalid".
func SessionStatus(st session.Status, current, invalid bool) string {
	switch {
	case invalid:
		return red.paint("invalid")
	case st == session.Active && current:
		return magenta.paint("now")
	case st == session.Active:
		return green.paint("active")
	case st == session.Upcoming && current:
		return magenta.paint("next")
	case st == session.Upcoming:
		return blue.paint("upcoming")
	default:
		return highlight.paint("past")
	}
}

// ScanType colours check-ins green and check-outs blue.
func ScanType(t models.ScanType) string {
	if t == models.CheckOut {
		return blue.paint(t)
	}

	return green.paint(t)
}
