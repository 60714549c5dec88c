package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

// SQLite is a store backed by a single SQLite file. Records are kept as
// JSON payloads next to the columns the queries filter and order on.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and brings its schema
// up to date.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err = migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func pragmaUserVersion(v int) string {
	return fmt.Sprintf("PRAGMA user_version = %d", v)
}

// Sessions returns the sessions stored under the reference day of day.
func (s *SQLite) Sessions(ctx context.Context, day time.Time) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT schedule_id, payload
		FROM sessions
		WHERE day = ?
		ORDER BY start_minutes ASC, schedule_id ASC
	`, timeutil.ReferenceDayKey(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session

	for rows.Next() {
		var id, payload string

		if err = rows.Scan(&id, &payload); err != nil {
			return nil, err
		}

		var sess models.Session

		if err = json.Unmarshal([]byte(payload), &sess); err != nil {
			return nil, errDecode.Fmt(id).Wrap(err)
		}

		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// ScanHistory returns the scan events matching q, newest first.
func (s *SQLite) ScanHistory(ctx context.Context, q models.ScanQuery) ([]models.ScanEvent, error) {
	var (
		where []string
		args  []any
	)

	if !q.StartDate.IsZero() {
		where = append(where, "ts >= ?")
		args = append(args, string(timeutil.ToKey(q.StartDate)))
	}

	if !q.EndDate.IsZero() {
		where = append(where, "ts <= ?")
		args = append(args, string(timeutil.ToKey(q.EndDate)))
	}

	if q.ScanType != "" {
		where = append(where, "scan_type = ?")
		args = append(args, string(q.ScanType))
	}

	query := "SELECT id, payload FROM scans"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY ts DESC, id DESC"

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ScanEvent

	for rows.Next() {
		var id, payload string

		if err = rows.Scan(&id, &payload); err != nil {
			return nil, err
		}

		var ev models.ScanEvent

		if err = json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, errDecode.Fmt(id).Wrap(err)
		}

		events = append(events, ev)
	}

	return events, rows.Err()
}

// PutSession creates or replaces a session.
func (s *SQLite) PutSession(ctx context.Context, sess *models.Session) error {
	if err := validateSession(sess); err != nil {
		return err
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (day, schedule_id, start_minutes, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (day, schedule_id) DO UPDATE SET
			start_minutes = excluded.start_minutes,
			payload = excluded.payload
	`, timeutil.ReferenceDayKey(sess.Date), sess.ScheduleID, sess.StartMinutes, string(payload))

	return err
}

// PutScan stores a scan event.
func (s *SQLite) PutScan(ctx context.Context, ev *models.ScanEvent) error {
	if err := prepareScan(ev); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scans (id, ts, scan_type, payload)
		VALUES (?, ?, ?, ?)
	`, ev.ID, string(timeutil.ToKey(ev.Timestamp)), string(ev.ScanType), string(payload))

	return err
}

// Close ends the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}
