package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

const (
	sessionBucket = "sessions"
	scanBucket    = "scans"
	metaBucket    = "meta"
)

// Bolt is a BoltDB backed store.
type Bolt struct {
	conn *bolt.DB
}

// OpenBolt creates or opens the database at path and locks it.
func OpenBolt(path string) (*Bolt, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errStoreLocked.Fmt(path)
		}

		return nil, err
	}

	err = db.Update(migrateBolt)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{conn: db}, nil
}

func sessionPrefix(day time.Time) []byte {
	return fmt.Appendf(nil, "%08d/", timeutil.ReferenceDayKey(day))
}

func sessionKey(s *models.Session) []byte {
	return append(sessionPrefix(s.Date), s.ScheduleID...)
}

func scanKey(ev *models.ScanEvent) []byte {
	k := timeutil.ToKey(ev.Timestamp)
	k = append(k, '/')

	return append(k, ev.ID...)
}

// Sessions returns the sessions stored under the reference day of day.
func (b *Bolt) Sessions(ctx context.Context, day time.Time) ([]models.Session, error) {
	prefix := sessionPrefix(day)

	var sessions []models.Session

	err := b.conn.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(sessionBucket)).Cursor()

		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var s models.Session

			if err := json.Unmarshal(v, &s); err != nil {
				return errDecode.Fmt(string(k)).Wrap(err)
			}

			sessions = append(sessions, s)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sortSessions(sessions)

	return sessions, nil
}

// ScanHistory walks the scans bucket backwards from the end bound so the
// newest events come first and the limit can stop the walk early.
func (b *Bolt) ScanHistory(ctx context.Context, q models.ScanQuery) ([]models.ScanEvent, error) {
	var events []models.ScanEvent

	var lower []byte
	if !q.StartDate.IsZero() {
		lower = timeutil.ToKey(q.StartDate)
	}

	err := b.conn.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(scanBucket)).Cursor()

		var k, v []byte

		if q.EndDate.IsZero() {
			k, v = c.Last()
		} else {
			// keys for the end instant itself sort before this bound
			upper := append(timeutil.ToKey(q.EndDate), '/', 0xff)

			k, v = c.Seek(upper)
			if k == nil {
				k, v = c.Last()
			} else if bytes.Compare(k, upper) > 0 {
				k, v = c.Prev()
			}
		}

		for ; k != nil; k, v = c.Prev() {
			if lower != nil && bytes.Compare(k, lower) < 0 {
				break
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			var ev models.ScanEvent

			if err := json.Unmarshal(v, &ev); err != nil {
				return errDecode.Fmt(string(k)).Wrap(err)
			}

			if !q.Matches(&ev) {
				continue
			}

			events = append(events, ev)

			if q.Limit > 0 && len(events) == q.Limit {
				break
			}
		}

		return nil
	})

	return events, err
}

// PutSession creates or replaces a session.
func (b *Bolt) PutSession(_ context.Context, s *models.Session) error {
	if err := validateSession(s); err != nil {
		return err
	}

	value, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return b.conn.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(sessionKey(s), value)
	})
}

// PutScan stores a scan event.
func (b *Bolt) PutScan(_ context.Context, ev *models.ScanEvent) error {
	if err := prepareScan(ev); err != nil {
		return err
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return b.conn.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(scanBucket)).Put(scanKey(ev), value)
	})
}

// Close releases the database lock.
func (b *Bolt) Close() error {
	return b.conn.Close()
}
