package session

import "time"

// Status is the single position of a window relative to now.
type Status int

const (
	Upcoming Status = iota
	Active
	Past
)

func (s Status) String() string {
	switch s {
	case Upcoming:
		return "upcoming"
	case Active:
		return "active"
	case Past:
		return "past"
	}

	return "unknown"
}

// Flags is the status of a window expressed as three booleans. Exactly one
// of them is true.
type Flags struct {
	IsActive   bool `json:"isActive"`
	IsPast     bool `json:"isPast"`
	IsUpcoming bool `json:"isUpcoming"`
}

// Resolve computes the status of w at now. The three intervals (-inf, start),
// [start, end) and [end, +inf) partition the time axis.
func Resolve(w Window, now time.Time) Flags {
	start, end := w.Start(), w.End()

	f := Flags{
		IsActive:   !now.Before(start) && now.Before(end),
		IsPast:     !now.Before(end),
		IsUpcoming: now.Before(start),
	}

	return f.Normalize()
}

// Valid reports whether exactly one flag is set.
func (f Flags) Valid() bool {
	n := 0

	for _, b := range []bool{f.IsActive, f.IsPast, f.IsUpcoming} {
		if b {
			n++
		}
	}

	return n == 1
}

// Normalize replaces a broken partition with past so an anomalous session
// is never shown as live.
func (f Flags) Normalize() Flags {
	if f.Valid() {
		return f
	}

	return Flags{IsPast: true}
}

// Status converts the flags to a Status.
func (f Flags) Status() Status {
	f = f.Normalize()

	switch {
	case f.IsActive:
		return Active
	case f.IsUpcoming:
		return Upcoming
	default:
		return Past
	}
}
