// Package store persists session snapshots and scan events and answers the
// session snapshot and scan history queries.
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthcard/orientation/internal/models"
)

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Store is the external data store consumed by the dashboard and the
// history views.
type Store interface {
	// Sessions returns the sessions of the reference day starting at day,
	// ordered by start minute.
	Sessions(ctx context.Context, day time.Time) ([]models.Session, error)
	// ScanHistory returns the scan events matching q, newest first.
	ScanHistory(ctx context.Context, q models.ScanQuery) ([]models.ScanEvent, error)
	// PutSession creates or replaces a session.
	PutSession(ctx context.Context, s *models.Session) error
	// PutScan appends a scan event. Events without an ID are assigned one.
	PutScan(ctx context.Context, ev *models.ScanEvent) error
	// Close ends the database connection
	Close() error
}

// Open opens the store at path using driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverBolt, "":
		return OpenBolt(path)
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, errUnknownDriver.Fmt(driver)
	}
}

// Import writes every session and scan of f to st.
func Import(ctx context.Context, st Store, f *models.Fixture) (sessions, scans int, err error) {
	for i := range f.Sessions {
		if err = st.PutSession(ctx, &f.Sessions[i]); err != nil {
			return sessions, scans, err
		}

		sessions++
	}

	for i := range f.Scans {
		if err = st.PutScan(ctx, &f.Scans[i]); err != nil {
			return sessions, scans, err
		}

		scans++
	}

	return sessions, scans, nil
}

func validateSession(s *models.Session) error {
	if s.ScheduleID == "" {
		return errMissingScheduleID
	}

	if s.Date.IsZero() {
		return errMissingDate.Fmt(s.ScheduleID)
	}

	return nil
}

func prepareScan(ev *models.ScanEvent) error {
	if !ev.ScanType.Valid() {
		return errInvalidScanType.Fmt(ev.ScanType)
	}

	if ev.Timestamp.IsZero() {
		return errMissingTimestamp
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	return nil
}

func sortSessions(sessions []models.Session) {
	slices.SortStableFunc(sessions, func(a, b models.Session) int {
		if a.StartMinutes != b.StartMinutes {
			return a.StartMinutes - b.StartMinutes
		}

		return strings.Compare(a.ScheduleID, b.ScheduleID)
	})
}
