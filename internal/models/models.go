// Package models defines the records exchanged with the external data store.
package models

import "time"

// ScanType distinguishes check-in from check-out scans.
type ScanType string

const (
	CheckIn  ScanType = "check-in"
	CheckOut ScanType = "check-out"
)

// Valid reports whether t is a known scan type.
func (t ScanType) Valid() bool {
	return t == CheckIn || t == CheckOut
}

type Venue struct {
	Name string `json:"name"`
}

// Attendee is one booking in a session snapshot. Its status is always
// derived, never stored.
type Attendee struct {
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Identity     string     `json:"applicationOrIdentity"`
	FullName     string     `json:"fullName"`
	QRPayload    string     `json:"qrPayload,omitempty"`
}

// Session is one scheduled orientation slot as returned by the session
// snapshot query.
type Session struct {
	// Date is PHT midnight of the slot's day.
	Date time.Time `json:"date"`
	// IsUpcoming and IsPast are advisory hints from the backend.
	IsUpcoming    *bool      `json:"isUpcoming,omitempty"`
	IsPast        *bool      `json:"isPast,omitempty"`
	ScheduleID    string     `json:"scheduleId"`
	Venue         Venue      `json:"venue"`
	Attendees     []Attendee `json:"attendees"`
	StartMinutes  int        `json:"startMinutes"`
	EndMinutes    int        `json:"endMinutes"`
	TotalSlots    int        `json:"totalSlots"`
	AttendeeCount int        `json:"attendeeCount"`
}

// ScanEvent is an immutable record of a single check-in or check-out.
type ScanEvent struct {
	Timestamp        time.Time  `json:"timestamp"`
	SessionDate      time.Time  `json:"sessionDate"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	ID               string     `json:"id"`
	AttendeeIdentity string     `json:"attendeeIdentity"`
	AttendeeName     string     `json:"attendeeName"`
	SessionReference string     `json:"sessionReference"`
	SessionTimeSlot  string     `json:"sessionTimeSlot"`
	SessionVenue     string     `json:"sessionVenue"`
	ScanType         ScanType   `json:"scanType"`
}

// ScanQuery is the request of the scan history query. Zero bounds are open.
type ScanQuery struct {
	StartDate time.Time
	EndDate   time.Time
	ScanType  ScanType
	Limit     int
}

// Matches reports whether ev satisfies the query bounds and type filter.
func (q ScanQuery) Matches(ev *ScanEvent) bool {
	if !q.StartDate.IsZero() && ev.Timestamp.Before(q.StartDate) {
		return false
	}

	if !q.EndDate.IsZero() && ev.Timestamp.After(q.EndDate) {
		return false
	}

	if q.ScanType != "" && ev.ScanType != q.ScanType {
		return false
	}

	return true
}

// Fixture is the document accepted by the import command.
type Fixture struct {
	Sessions []Session   `json:"sessions"`
	Scans    []ScanEvent `json:"scans"`
}
