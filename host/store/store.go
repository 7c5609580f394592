// Package store records decoded telemetry frames into a SQLite database
// for offline analysis.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"coiltone/protocol"
)

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT NOT NULL,
	source      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS frames (
	session_id  INTEGER NOT NULL REFERENCES sessions(id),
	timestamp   INTEGER NOT NULL,
	sample      INTEGER NOT NULL,
	i           INTEGER NOT NULL,
	q           INTEGER NOT NULL,
	envelope    INTEGER NOT NULL,
	freq_hz     INTEGER NOT NULL,
	duty        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_frames_session ON frames(session_id, timestamp);
`

// Store handles database operations. Open is lazy and happens once.
type Store struct {
	dbPath string

	db     *sql.DB
	dbOnce sync.Once
	dbErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store writing to the SQLite database at dbPath.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getDB() (*sql.DB, error) {
	s.dbOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", s.dbPath))
		if err != nil {
			s.dbErr = fmt.Errorf("opening database: %w", err)
			return
		}
		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.dbErr = fmt.Errorf("initializing schema: %w", err)
			return
		}
		s.db = db
	})
	return s.db, s.dbErr
}

// CreateSession inserts a session row and returns its id.
func (s *Store) CreateSession(ctx context.Context, source string) (int64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, source) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339), source)
	if err != nil {
		return 0, fmt.Errorf("creating session: %w", err)
	}
	return res.LastInsertId()
}

// InsertFrames writes a batch of frames in one transaction.
func (s *Store) InsertFrames(ctx context.Context, sessionID int64, frames []protocol.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO frames (session_id, timestamp, sample, i, q, envelope, freq_hz, duty)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range frames {
		if _, err := stmt.ExecContext(ctx, sessionID,
			f.Timestamp, f.Sample, f.I, f.Q, f.Envelope, f.FreqHz, f.Duty); err != nil {
			return fmt.Errorf("inserting frame: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}
