package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/dayindex"
)

const sessionColumns = `id, uid, label, started_at, completed_at, duration, created_at`

// RecordSession stores a completed session under a fresh UID.
func (s *Store) RecordSession(label string, startedAt, completedAt time.Time) (*Session, error) {
	return s.ImportSession(uuid.NewString(), label, startedAt, completedAt)
}

// ImportSession stores a session under a caller-supplied UID. Importing the
// same UID twice keeps the first copy.
func (s *Store) ImportSession(uid, label string, startedAt, completedAt time.Time) (*Session, error) {
	if completedAt.Before(startedAt) {
		return nil, fmt.Errorf("%w: session completes before it starts", dayindex.ErrInvalidArgument)
	}
	duration := int64(completedAt.Sub(startedAt).Seconds())
	_, err := s.db.Exec(
		`INSERT INTO sessions (uid, label, started_at, completed_at, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(uid) DO NOTHING`,
		uid, label,
		startedAt.UTC().Format(time.RFC3339),
		completedAt.UTC().Format(time.RFC3339),
		duration,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return s.GetSessionByUID(uid)
}

func (s *Store) GetSession(id int64) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	return sess, nil
}

func (s *Store) GetSessionByUID(uid string) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE uid = ?`, uid)
	sess, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("get session %q: %w", uid, err)
	}
	return sess, nil
}

func (s *Store) DeleteSession(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}

func (s *Store) ListSessions(f SessionFilter) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE 1=1`
	var args []any

	if f.Label != nil {
		query += ` AND label = ?`
		args = append(args, *f.Label)
	}
	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// DailyCounts buckets every session by the user day its completion falls in.
func (s *Store) DailyCounts(offsetHours int) (activity.Counts, error) {
	rows, err := s.db.Query(`SELECT completed_at FROM sessions`)
	if err != nil {
		return activity.Counts{}, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	byDay := make(map[int64]int)
	for rows.Next() {
		var completedAt string
		if err := rows.Scan(&completedAt); err != nil {
			return activity.Counts{}, err
		}
		t, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return activity.Counts{}, fmt.Errorf("parse completed_at %q: %w", completedAt, err)
		}
		byDay[dayindex.FromTime(t, offsetHours)]++
	}
	if err := rows.Err(); err != nil {
		return activity.Counts{}, err
	}
	return activity.NewCounts(byDay)
}

// FirstSessionAt returns the completion time of the oldest session, or nil
// when there are none.
func (s *Store) FirstSessionAt() (*time.Time, error) {
	var first sql.NullString
	if err := s.db.QueryRow(`SELECT MIN(completed_at) FROM sessions`).Scan(&first); err != nil {
		return nil, fmt.Errorf("first session: %w", err)
	}
	if !first.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, first.String)
	if err != nil {
		return nil, fmt.Errorf("parse first session: %w", err)
	}
	return &t, nil
}

// Revision changes whenever sessions are added or removed.
func (s *Store) Revision() (string, error) {
	var count, maxID int64
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(id), 0) FROM sessions`).Scan(&count, &maxID)
	if err != nil {
		return "", fmt.Errorf("session revision: %w", err)
	}
	return fmt.Sprintf("%d.%d", count, maxID), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var startedAt, completedAt, createdAt string
	if err := row.Scan(&sess.ID, &sess.UID, &sess.Label, &startedAt, &completedAt, &sess.Duration, &createdAt); err != nil {
		return nil, err
	}
	sess.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	sess.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sess, nil
}
