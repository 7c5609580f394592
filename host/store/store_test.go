package store

import (
	"context"
	"path/filepath"
	"testing"

	"coiltone/protocol"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "telemetry.db"))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.CreateSession(ctx, "stdin")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	id2, err := s.CreateSession(ctx, "/dev/ttyACM0")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if id1 == id2 {
		t.Errorf("session ids not distinct: %d", id1)
	}
}

func TestInsertFrames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	frames := []protocol.Frame{
		{Timestamp: 1600, Sample: -100, I: 50, Q: -50, Envelope: 70, FreqHz: 100, Duty: 8},
		{Timestamp: 3200, Sample: 200, I: 90, Q: 10, Envelope: 91, FreqHz: 120, Duty: 9},
	}
	if err := s.InsertFrames(ctx, id, frames); err != nil {
		t.Fatalf("InsertFrames: %v", err)
	}

	db, err := s.getDB()
	if err != nil {
		t.Fatalf("getDB: %v", err)
	}
	var count int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM frames WHERE session_id = ?`, id).Scan(&count); err != nil {
		t.Fatalf("counting frames: %v", err)
	}
	if count != len(frames) {
		t.Errorf("stored %d frames, want %d", count, len(frames))
	}

	var envelope, freq int
	if err := db.QueryRow(
		`SELECT envelope, freq_hz FROM frames WHERE session_id = ? ORDER BY timestamp LIMIT 1`,
		id).Scan(&envelope, &freq); err != nil {
		t.Fatalf("reading frame back: %v", err)
	}
	if envelope != 70 || freq != 100 {
		t.Errorf("frame read back as envelope=%d freq=%d", envelope, freq)
	}
}

func TestInsertFramesEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := s.InsertFrames(context.Background(), 1, nil); err != nil {
		t.Errorf("InsertFrames(nil) = %v, want nil", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateSession(context.Background(), "test"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
