package store

import (
	"context"
	"database/sql"
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
)

// schemaVersion is the layout written by this build for both drivers.
const schemaVersion = 1

var versionKey = []byte("version")

// migrateBolt creates the buckets and records the layout version. A
// database written by a newer build is refused rather than misread.
func migrateBolt(tx *bolt.Tx) error {
	meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
	if err != nil {
		return err
	}

	var current uint64
	if v := meta.Get(versionKey); len(v) == 8 {
		current = binary.BigEndian.Uint64(v)
	}

	if current > schemaVersion {
		return errSchemaVersion.Fmt(current, schemaVersion)
	}

	for _, name := range []string{sessionBucket, scanBucket} {
		if _, err = tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
	}

	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, schemaVersion)

	return meta.Put(versionKey, v)
}

// sqliteMigrations holds the statements that move the schema from version i
// to version i+1.
var sqliteMigrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS sessions (
			day           INTEGER NOT NULL,
			schedule_id   TEXT    NOT NULL,
			start_minutes INTEGER NOT NULL,
			payload       TEXT    NOT NULL,
			PRIMARY KEY (day, schedule_id)
		)`,
		`CREATE TABLE IF NOT EXISTS scans (
			id        TEXT PRIMARY KEY,
			ts        TEXT NOT NULL,
			scan_type TEXT NOT NULL,
			payload   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS scans_ts ON scans (ts)`,
	},
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}

	if current > len(sqliteMigrations) {
		return errSchemaVersion.Fmt(current, len(sqliteMigrations))
	}

	for version := current; version < len(sqliteMigrations); version++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		for _, stmt := range sqliteMigrations[version] {
			if _, err = tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return errMigrate.Fmt(version + 1).Wrap(err)
			}
		}

		// PRAGMA does not accept bound parameters
		if _, err = tx.ExecContext(ctx, pragmaUserVersion(version+1)); err != nil {
			_ = tx.Rollback()
			return errMigrate.Fmt(version + 1).Wrap(err)
		}

		if err = tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
